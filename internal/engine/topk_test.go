package engine

import "testing"

func rec(id string, score float64, rank int, fee float64) Recommendation {
	return Recommendation{
		Course:    Course{ID: id, InstitutionRank: rank, Fee: fee},
		Breakdown: ScoreBreakdown{Final: score},
	}
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Course.ID
	}
	return out
}

func TestSelector_TopThreeOfFive(t *testing.T) {
	// c1 and c4 tie on score; c4 wins the tie on institution rank.
	candidates := []Recommendation{
		rec("c1", 0.9, 20, 9000),
		rec("c2", 0.5, 5, 9000),
		rec("c3", 0.7, 10, 9000),
		rec("c4", 0.9, 3, 9000),
		rec("c5", 0.3, 1, 9000),
	}

	s := NewSelector(3)
	for _, c := range candidates {
		s.Offer(c)
	}

	got := ids(s.Results())
	want := []string{"c4", "c1", "c3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSelector_SizeInvariant(t *testing.T) {
	tests := []struct {
		name       string
		k          int
		candidates int
		expected   int
	}{
		{"fewer candidates than k", 10, 3, 3},
		{"more candidates than k", 3, 10, 3},
		{"k zero", 0, 5, 0},
		{"empty pool", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(tt.k)
			for i := 0; i < tt.candidates; i++ {
				s.Offer(rec(string(rune('a'+i)), float64(i)/20, 0, 0))
			}
			if got := len(s.Results()); got != tt.expected {
				t.Errorf("got %d results, want %d", got, tt.expected)
			}
		})
	}
}

func TestRanksAhead_TieBreakChain(t *testing.T) {
	tests := []struct {
		name string
		a, b Recommendation
		want bool
	}{
		{
			name: "higher score wins",
			a:    rec("z", 0.9, 100, 99999),
			b:    rec("a", 0.8, 1, 0),
			want: true,
		},
		{
			name: "score tie, lower rank wins",
			a:    rec("z", 0.9, 2, 99999),
			b:    rec("a", 0.9, 5, 0),
			want: true,
		},
		{
			name: "score tie, unknown rank loses",
			a:    rec("a", 0.9, 0, 0),
			b:    rec("z", 0.9, 500, 99999),
			want: false,
		},
		{
			name: "score and rank tie, lower fee wins",
			a:    rec("z", 0.9, 2, 8000),
			b:    rec("a", 0.9, 2, 9000),
			want: true,
		},
		{
			name: "full tie, smaller id wins",
			a:    rec("a", 0.9, 2, 9000),
			b:    rec("b", 0.9, 2, 9000),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ranksAhead(tt.a, tt.b); got != tt.want {
				t.Errorf("ranksAhead = %v, want %v", got, tt.want)
			}
			// A strict order: both directions can't hold.
			if ranksAhead(tt.a, tt.b) && ranksAhead(tt.b, tt.a) {
				t.Error("ranksAhead is not antisymmetric")
			}
		})
	}
}

func TestSelector_DescendingOrder(t *testing.T) {
	s := NewSelector(8)
	scores := []float64{0.31, 0.99, 0.12, 0.75, 0.75, 0.42, 0.88, 0.05, 0.64, 0.2}
	for i, score := range scores {
		s.Offer(rec(string(rune('a'+i)), score, i+1, float64(1000*i)))
	}

	results := s.Results()
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if ranksAhead(results[i], results[i-1]) {
			t.Errorf("results out of order at %d: %v before %v", i, ids(results)[i-1], ids(results)[i])
		}
	}
}

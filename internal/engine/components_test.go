package engine

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSubjectScorer(t *testing.T) {
	tests := []struct {
		name     string
		required map[string]Grade
		subjects []string
		expected float64
	}{
		{
			name:     "no requirements",
			required: nil,
			subjects: []string{"Mathematics"},
			expected: 1.0,
		},
		{
			name:     "all requirements met",
			required: map[string]Grade{"Mathematics": GradeA, "Physics": GradeB},
			subjects: []string{"Mathematics", "Physics", "Chemistry"},
			expected: 1.0,
		},
		{
			name:     "half met",
			required: map[string]Grade{"Mathematics": GradeA, "Chemistry": GradeB},
			subjects: []string{"Mathematics", "Physics"},
			expected: 0.5,
		},
		{
			name:     "none met",
			required: map[string]Grade{"Biology": GradeC},
			subjects: []string{"Mathematics"},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := &Course{ID: "c1", RequiredSubjects: tt.required}
			profile := &StudentProfile{Subjects: tt.subjects}

			value, reasons := SubjectScorer{}.Score(course, profile)
			if !almostEqual(value, tt.expected) {
				t.Errorf("value = %v, want %v", value, tt.expected)
			}
			if len(reasons) == 0 {
				t.Error("expected at least one reason")
			}
		})
	}
}

func TestGradeScorer(t *testing.T) {
	course := &Course{
		ID:                "c1",
		RequiredSubjects:  map[string]Grade{"Mathematics": GradeA},
		TariffRequirement: 48,
	}

	tests := []struct {
		name  string
		grade Grade
		check func(t *testing.T, value float64)
	}{
		{
			name:  "exceeds requirement",
			grade: GradeAStar,
			check: func(t *testing.T, value float64) {
				if value <= 0.5 {
					t.Errorf("expected value > 0.5, got %v", value)
				}
			},
		},
		{
			name:  "meets requirement exactly",
			grade: GradeA,
			check: func(t *testing.T, value float64) {
				if !almostEqual(value, 0.5) {
					t.Errorf("expected 0.5, got %v", value)
				}
			},
		},
		{
			name:  "falls short",
			grade: GradeC,
			check: func(t *testing.T, value float64) {
				if value >= 0.5 {
					t.Errorf("expected value < 0.5, got %v", value)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &StudentProfile{
				Subjects:        []string{"Mathematics"},
				PredictedGrades: map[string]Grade{"Mathematics": tt.grade},
			}
			value, _ := GradeScorer{}.Score(course, profile)
			if value < 0 || value > 1 {
				t.Fatalf("value %v out of [0,1]", value)
			}
			tt.check(t, value)
		})
	}
}

func TestGradeScorer_NoTariffRequirement(t *testing.T) {
	course := &Course{ID: "c1"}
	profile := &StudentProfile{Subjects: []string{"Mathematics"}}

	value, reasons := GradeScorer{}.Score(course, profile)
	if value != 0.5 {
		t.Errorf("expected neutral 0.5, got %v", value)
	}
	if len(reasons) == 0 || !strings.Contains(reasons[0], "no tariff requirement") {
		t.Errorf("expected degradation reason, got %v", reasons)
	}
}

// Raising a grade in a required subject must never lower the grade score.
func TestGradeScorer_Monotonic(t *testing.T) {
	course := &Course{
		ID:                "c1",
		RequiredSubjects:  map[string]Grade{"Mathematics": GradeB},
		TariffRequirement: 40,
	}

	ladder := []Grade{GradeU, GradeE, GradeD, GradeC, GradeB, GradeA, GradeAStar}
	prev := -1.0
	for _, grade := range ladder {
		profile := &StudentProfile{
			Subjects:        []string{"Mathematics"},
			PredictedGrades: map[string]Grade{"Mathematics": grade},
		}
		value, _ := GradeScorer{}.Score(course, profile)
		if value < prev {
			t.Errorf("score dropped from %v to %v when grade improved to %s", prev, value, grade)
		}
		prev = value
	}
}

type stubMatcher struct {
	score   float64
	matched []string
}

func (m stubMatcher) Match(text string, declared []string) (float64, []string) {
	return m.score, m.matched
}

func TestPreferenceScorer(t *testing.T) {
	course := &Course{
		ID:              "c1",
		Title:           "Software Engineering BSc",
		Fee:             9000,
		Region:          "North",
		InstitutionSize: "large",
	}

	tests := []struct {
		name     string
		prefs    Preferences
		matcher  InterestMatcher
		expected float64
	}{
		{
			// base = 1.0, no interests declared -> interest neutral 0.5
			name:     "no preferences at all",
			prefs:    Preferences{},
			expected: 0.6*1.0 + 0.4*0.5,
		},
		{
			// region mismatch: base = (0 + 1 + 1) / 3
			name:     "region mismatch",
			prefs:    Preferences{Region: "South"},
			expected: 0.6*(2.0/3.0) + 0.4*0.5,
		},
		{
			// fee at half the budget: budget check = 0.5
			name:     "fee halfway into budget",
			prefs:    Preferences{MaxAnnualFee: 18000},
			expected: 0.6*((1.0+0.5+1.0)/3.0) + 0.4*0.5,
		},
		{
			// fee above budget scores 0 on the budget check
			name:     "fee over budget",
			prefs:    Preferences{MaxAnnualFee: 4500},
			expected: 0.6*(2.0/3.0) + 0.4*0.5,
		},
		{
			name:     "size match",
			prefs:    Preferences{InstitutionSize: "large"},
			expected: 0.6*1.0 + 0.4*0.5,
		},
		{
			name:     "interest match blended in",
			prefs:    Preferences{Interests: []string{"Software Engineering"}},
			matcher:  stubMatcher{score: 1.0, matched: []string{"Software Engineering"}},
			expected: 0.6*1.0 + 0.4*1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &StudentProfile{Preferences: tt.prefs}
			scorer := PreferenceScorer{Matcher: tt.matcher}

			value, _ := scorer.Score(course, profile)
			if !almostEqual(value, tt.expected) {
				t.Errorf("value = %v, want %v", value, tt.expected)
			}
		})
	}
}

func TestRankingScorer(t *testing.T) {
	tests := []struct {
		name     string
		rank     int
		expected float64
	}{
		{"unknown rank is neutral", 0, 0.5},
		{"rank 50 halves", 50, 0.5},
		{"top rank near 1", 1, 1.0 / 1.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := &Course{ID: "c1", InstitutionRank: tt.rank}
			value, _ := RankingScorer{}.Score(course, &StudentProfile{})
			if !almostEqual(value, tt.expected) {
				t.Errorf("value = %v, want %v", value, tt.expected)
			}
		})
	}
}

// Lower numeric rank always scores at least as well, and the curve
// never hits zero.
func TestRankingScorer_Monotonic(t *testing.T) {
	prev := 2.0
	for rank := 1; rank <= 2000; rank *= 2 {
		course := &Course{ID: "c1", InstitutionRank: rank}
		value, _ := RankingScorer{}.Score(course, &StudentProfile{})
		if value >= prev {
			t.Errorf("rank %d scored %v, not below %v", rank, value, prev)
		}
		if value <= 0 {
			t.Errorf("rank %d scored %v, expected > 0", rank, value)
		}
		prev = value
	}
}

func TestEmployabilityScorer(t *testing.T) {
	eightyFive := 85.0
	overflow := 150.0

	tests := []struct {
		name     string
		emp      *float64
		expected float64
	}{
		{"unknown is neutral", nil, 0.5},
		{"85 percent", &eightyFive, 0.85},
		{"out-of-range clamps", &overflow, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := &Course{ID: "c1", Employability: tt.emp}
			value, _ := EmployabilityScorer{}.Score(course, &StudentProfile{})
			if !almostEqual(value, tt.expected) {
				t.Errorf("value = %v, want %v", value, tt.expected)
			}
		})
	}
}

func TestFeedbackScorer(t *testing.T) {
	course := &Course{ID: "c1"}
	profile := &StudentProfile{}

	tests := []struct {
		name     string
		events   []FeedbackEvent
		minCount int
		check    func(t *testing.T, value float64)
	}{
		{
			name:     "no feedback is neutral",
			events:   nil,
			minCount: 1,
			check: func(t *testing.T, value float64) {
				if value != 0.5 {
					t.Errorf("expected 0.5, got %v", value)
				}
			},
		},
		{
			name:     "below min count is neutral regardless of sign",
			events:   []FeedbackEvent{{Positive: true, AgeDays: 0}, {Positive: true, AgeDays: 1}},
			minCount: 3,
			check: func(t *testing.T, value float64) {
				if value != 0.5 {
					t.Errorf("expected 0.5, got %v", value)
				}
			},
		},
		{
			name:     "fresh positive at full weight",
			events:   []FeedbackEvent{{Positive: true, AgeDays: 0}},
			minCount: 1,
			check: func(t *testing.T, value float64) {
				// signal 1.0 squashed by 2*minCount
				if !almostEqual(value, 1.0) {
					t.Errorf("expected 1.0, got %v", value)
				}
			},
		},
		{
			name:     "event at the horizon contributes nothing",
			events:   []FeedbackEvent{{Positive: true, AgeDays: 90}},
			minCount: 1,
			check: func(t *testing.T, value float64) {
				if value != 0.5 {
					t.Errorf("expected 0.5, got %v", value)
				}
			},
		},
		{
			name: "consistent negatives push below neutral",
			events: []FeedbackEvent{
				{Positive: false, AgeDays: 1},
				{Positive: false, AgeDays: 2},
				{Positive: false, AgeDays: 3},
			},
			minCount: 3,
			check: func(t *testing.T, value float64) {
				if value >= 0.5 {
					t.Errorf("expected value < 0.5, got %v", value)
				}
			},
		},
		{
			name: "signal is bounded",
			events: []FeedbackEvent{
				{Positive: true}, {Positive: true}, {Positive: true},
				{Positive: true}, {Positive: true}, {Positive: true},
				{Positive: true}, {Positive: true}, {Positive: true},
			},
			minCount: 1,
			check: func(t *testing.T, value float64) {
				if value != 1.0 {
					t.Errorf("expected clamp at 1.0, got %v", value)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := FeedbackScorer{
				Feedback:    map[string]FeedbackSummary{"c1": {Events: tt.events}},
				HorizonDays: 90,
				MinCount:    tt.minCount,
			}
			value, _ := scorer.Score(course, profile)
			if value < 0 || value > 1 {
				t.Fatalf("value %v out of [0,1]", value)
			}
			tt.check(t, value)
		})
	}
}

func TestDecayFactor(t *testing.T) {
	tests := []struct {
		age      float64
		expected float64
	}{
		{0, 1.0},
		{45, 0.5},
		{90, 0.0},
		{365, 0.0},
		{-5, 1.0}, // clock skew: treat as fresh
	}

	for _, tt := range tests {
		if got := decayFactor(tt.age, 90); !almostEqual(got, tt.expected) {
			t.Errorf("decayFactor(%v, 90) = %v, want %v", tt.age, got, tt.expected)
		}
	}
}

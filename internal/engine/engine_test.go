package engine

import (
	"bytes"
	"encoding/json"
	"testing"
)

func testEngine() *Engine {
	return New(Config{Weights: DefaultWeights()})
}

func TestRecommend_ExactMatchScenario(t *testing.T) {
	profile := StudentProfile{
		ID:       "s1",
		Subjects: []string{"Mathematics", "Physics"},
		PredictedGrades: map[string]Grade{
			"Mathematics": GradeAStar,
			"Physics":     GradeA,
		},
	}
	course := Course{
		ID:                "c1",
		Title:             "Mathematics BSc",
		RequiredSubjects:  map[string]Grade{"Mathematics": GradeA},
		TariffRequirement: 48,
	}

	result := testEngine().Recommend(Request{
		Profile:    profile,
		Candidates: []Course{course},
		K:          5,
	})

	if len(result.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(result.Recommendations))
	}

	breakdown := result.Recommendations[0].Breakdown
	if breakdown.Components[ComponentSubject] != 1.0 {
		t.Errorf("subject score = %v, want 1.0", breakdown.Components[ComponentSubject])
	}
	if breakdown.Components[ComponentGrade] <= 0.5 {
		t.Errorf("grade score = %v, want > 0.5 (requirement exceeded)", breakdown.Components[ComponentGrade])
	}
	if breakdown.PenaltyApplied {
		t.Error("penalty must not apply when all requirements are met")
	}
}

func TestRecommend_MissingRequirementScenario(t *testing.T) {
	profile := StudentProfile{
		ID:       "s1",
		Subjects: []string{"Mathematics", "Physics"},
		PredictedGrades: map[string]Grade{
			"Mathematics": GradeA,
			"Physics":     GradeA,
		},
	}
	course := Course{
		ID:                "c1",
		Title:             "Biochemistry BSc",
		RequiredSubjects:  map[string]Grade{"Mathematics": GradeA, "Chemistry": GradeB},
		TariffRequirement: 88,
	}

	result := testEngine().Recommend(Request{
		Profile:    profile,
		Candidates: []Course{course},
		K:          5,
	})

	breakdown := result.Recommendations[0].Breakdown
	if breakdown.Components[ComponentSubject] != 0.5 {
		t.Errorf("subject score = %v, want 0.5", breakdown.Components[ComponentSubject])
	}
	if !breakdown.PenaltyApplied {
		t.Fatal("expected penalty for missing Chemistry")
	}

	// Reconstruct the unpenalized weighted mean from the breakdown and
	// confirm the final score is at most a quarter of it.
	weights := DefaultWeights()
	byName := map[string]float64{
		ComponentSubject:       weights.Subject,
		ComponentGrade:         weights.Grade,
		ComponentPreference:    weights.Preference,
		ComponentRanking:       weights.Ranking,
		ComponentEmployability: weights.Employability,
		ComponentFeedback:      weights.Feedback,
	}
	sum, totalWeight := 0.0, 0.0
	for name, value := range breakdown.Components {
		sum += byName[name] * value
		totalWeight += byName[name]
	}
	unpenalized := sum / totalWeight
	if breakdown.Final > 0.25*unpenalized+1e-9 {
		t.Errorf("Final = %v, want <= 0.25 * %v", breakdown.Final, unpenalized)
	}
}

func TestRecommend_Determinism(t *testing.T) {
	profile := StudentProfile{
		ID:              "s1",
		Subjects:        []string{"Mathematics", "Physics", "Art"},
		PredictedGrades: map[string]Grade{"Mathematics": GradeB, "Physics": GradeC},
		Preferences:     Preferences{Region: "North", MaxAnnualFee: 9500},
	}

	candidates := make([]Course, 0, 40)
	for i := 0; i < 40; i++ {
		candidates = append(candidates, Course{
			ID:                "c" + string(rune('A'+i%26)) + string(rune('0'+i/26)),
			Title:             "Course",
			Region:            "North",
			Fee:               float64(8000 + 50*i),
			InstitutionRank:   (i * 7) % 120,
			TariffRequirement: float64((i * 13) % 112),
			RequiredSubjects:  map[string]Grade{"Mathematics": GradeC},
		})
	}
	feedback := map[string]FeedbackSummary{
		"cA0": {Events: []FeedbackEvent{{Positive: true, AgeDays: 3}, {Positive: true, AgeDays: 8}, {Positive: false, AgeDays: 80}}},
	}

	run := func() []byte {
		result := testEngine().Recommend(Request{
			Profile:    profile,
			Candidates: candidates,
			Feedback:   feedback,
			K:          10,
		})
		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	first := run()
	for i := 0; i < 5; i++ {
		if next := run(); !bytes.Equal(first, next) {
			t.Fatalf("run %d differed from first run", i+2)
		}
	}
}

func TestRecommend_SkipsCandidatesWithoutID(t *testing.T) {
	candidates := []Course{
		{ID: "", Title: "Mystery Course"},
		{ID: "c1", Title: "Real Course"},
		{ID: "", Title: "Another Mystery"},
	}

	result := testEngine().Recommend(Request{
		Profile:    StudentProfile{ID: "s1"},
		Candidates: candidates,
		K:          10,
	})

	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Course.ID != "c1" {
		t.Errorf("expected only c1 in results, got %v", result.Recommendations)
	}
}

func TestRecommend_EmptyPool(t *testing.T) {
	result := testEngine().Recommend(Request{Profile: StudentProfile{ID: "s1"}, K: 10})
	if len(result.Recommendations) != 0 || result.Skipped != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestRecommend_NeverExceedsK(t *testing.T) {
	var candidates []Course
	for i := 0; i < 25; i++ {
		candidates = append(candidates, Course{ID: "c" + string(rune('a'+i)), Title: "Course"})
	}

	for _, k := range []int{1, 5, 25, 100} {
		result := testEngine().Recommend(Request{
			Profile:    StudentProfile{ID: "s1"},
			Candidates: candidates,
			K:          k,
		})
		max := k
		if len(candidates) < max {
			max = len(candidates)
		}
		if len(result.Recommendations) > max {
			t.Errorf("K=%d: got %d results, want <= %d", k, len(result.Recommendations), max)
		}
	}
}

// Scores stay inside the unit interval whatever the inputs look like.
func TestRecommend_Bounds(t *testing.T) {
	bad := -20.0
	candidates := []Course{
		{ID: "c1", Fee: -500, TariffRequirement: 1000},
		{ID: "c2", InstitutionRank: 999999, Employability: &bad},
		{ID: "c3", RequiredSubjects: map[string]Grade{"X": "??", "Y": GradeA}},
	}
	profile := StudentProfile{
		ID:              "s1",
		Subjects:        []string{"X"},
		PredictedGrades: map[string]Grade{"X": "not-a-grade"},
		Preferences:     Preferences{MaxAnnualFee: 1},
	}

	result := testEngine().Recommend(Request{Profile: profile, Candidates: candidates, K: 10})
	for _, rec := range result.Recommendations {
		if rec.Breakdown.Final < 0 || rec.Breakdown.Final > 1 {
			t.Errorf("course %s: Final %v out of [0,1]", rec.Course.ID, rec.Breakdown.Final)
		}
		for name, value := range rec.Breakdown.Components {
			if value < 0 || value > 1 {
				t.Errorf("course %s: component %s = %v out of [0,1]", rec.Course.ID, name, value)
			}
		}
	}
}

func TestRecommend_PerRequestWeightOverride(t *testing.T) {
	profile := StudentProfile{ID: "s1", Subjects: []string{"Mathematics"}}
	candidates := []Course{
		{ID: "ranked", InstitutionRank: 1},
		{ID: "unranked"},
	}

	rankOnly := &ScoringWeights{Ranking: 1}
	result := testEngine().Recommend(Request{
		Profile:    profile,
		Candidates: candidates,
		Weights:    rankOnly,
		K:          2,
	})

	if result.Recommendations[0].Course.ID != "ranked" {
		t.Errorf("expected ranked course first with rank-only weights, got %s",
			result.Recommendations[0].Course.ID)
	}
}

func TestReload_SwapsWholeConfig(t *testing.T) {
	e := New(Config{Weights: ScoringWeights{Subject: 1}})
	profile := StudentProfile{ID: "s1", Subjects: []string{"Mathematics"}}
	course := Course{ID: "c1", RequiredSubjects: map[string]Grade{"Chemistry": GradeA}}

	before := e.Recommend(Request{Profile: profile, Candidates: []Course{course}, K: 1})

	e.Reload(Config{Weights: ScoringWeights{Ranking: 1}})
	after := e.Recommend(Request{Profile: profile, Candidates: []Course{course}, K: 1})

	if before.Recommendations[0].Breakdown.Final == after.Recommendations[0].Breakdown.Final {
		t.Error("expected reload to change scoring behavior")
	}
}

type recordingSink struct {
	emitted []string
}

func (s *recordingSink) EmitBreakdown(courseID string, breakdown ScoreBreakdown) {
	s.emitted = append(s.emitted, courseID)
}

func TestRecommendAudited_EmitsInRankOrder(t *testing.T) {
	candidates := []Course{
		{ID: "low", TariffRequirement: 200},
		{ID: "high", InstitutionRank: 1},
	}
	profile := StudentProfile{ID: "s1"}

	sink := &recordingSink{}
	result := testEngine().RecommendAudited(Request{
		Profile:    profile,
		Candidates: candidates,
		K:          2,
	}, sink)

	if len(sink.emitted) != len(result.Recommendations) {
		t.Fatalf("sink got %d emissions, want %d", len(sink.emitted), len(result.Recommendations))
	}
	for i, rec := range result.Recommendations {
		if sink.emitted[i] != rec.Course.ID {
			t.Errorf("emission %d = %s, want %s", i, sink.emitted[i], rec.Course.ID)
		}
	}
}

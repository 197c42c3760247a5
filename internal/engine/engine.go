// Package engine implements the recommendation scoring engine: six
// composable score components, a weighted aggregator with a
// missing-requirement penalty, and bounded top-K selection. The engine
// is purely computational; candidates, feedback, weights, and the
// interest taxonomy are materialized by the caller.
package engine

import "sync/atomic"

// Config is the engine's shared read-only configuration. Reloading
// swaps the whole object atomically, so in-flight scoring passes never
// observe a half-updated configuration.
type Config struct {
	Weights          ScoringWeights
	PenaltyFactor    float64 // 0 means DefaultPenaltyFactor
	InterestWeight   float64 // 0 means DefaultInterestWeight
	DecayHorizonDays float64 // 0 means DefaultDecayHorizonDays
	MinFeedbackCount int     // 0 means DefaultMinFeedbackCount
	MaxReasons       int     // 0 means DefaultMaxReasons
	Matcher          InterestMatcher
}

// DefaultWeights returns the baseline component weights.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Subject:       1.0,
		Grade:         1.0,
		Preference:    0.8,
		Ranking:       0.5,
		Employability: 0.6,
		Feedback:      0.4,
	}
}

// AuditSink receives every selected breakdown, in rank order, for
// persistence so recommendation runs can be replayed and explained
// after the fact.
type AuditSink interface {
	EmitBreakdown(courseID string, breakdown ScoreBreakdown)
}

// Request carries the fully materialized inputs for one scoring pass.
type Request struct {
	Profile    StudentProfile
	Candidates []Course
	Feedback   map[string]FeedbackSummary
	Weights    *ScoringWeights // optional per-request override
	K          int
}

// Result is the ranked output of a scoring pass. Skipped counts
// candidates dropped for missing an id; it is reporting, not an error.
type Result struct {
	Recommendations []Recommendation
	Skipped         int
}

// Engine scores candidate courses against student profiles. It is
// stateless across calls apart from the configuration pointer and safe
// for concurrent use: each Recommend call builds its own components and
// selector and only reads shared immutable state.
type Engine struct {
	cfg atomic.Pointer[Config]
}

// New builds an engine around the given configuration.
func New(cfg Config) *Engine {
	e := &Engine{}
	e.cfg.Store(&cfg)
	return e
}

// Reload replaces the engine configuration. Scoring passes already in
// flight keep the configuration they started with.
func (e *Engine) Reload(cfg Config) {
	e.cfg.Store(&cfg)
}

// Recommend scores every candidate and returns the top K, ranked.
// Candidates without an id are skipped and counted; an empty pool
// yields an empty result. The same inputs always produce the same
// ordered output.
func (e *Engine) Recommend(req Request) Result {
	return e.recommend(req, nil)
}

// RecommendAudited is Recommend with each selected breakdown emitted to
// the sink in rank order.
func (e *Engine) RecommendAudited(req Request, sink AuditSink) Result {
	return e.recommend(req, sink)
}

func (e *Engine) recommend(req Request, sink AuditSink) Result {
	cfg := e.cfg.Load()

	weights := cfg.Weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	agg := &Aggregator{
		Components: []WeightedComponent{
			{Scorer: SubjectScorer{}, Weight: weights.Subject},
			{Scorer: GradeScorer{}, Weight: weights.Grade},
			{Scorer: PreferenceScorer{Matcher: cfg.Matcher, InterestWeight: cfg.InterestWeight}, Weight: weights.Preference},
			{Scorer: RankingScorer{}, Weight: weights.Ranking},
			{Scorer: EmployabilityScorer{}, Weight: weights.Employability},
			{Scorer: FeedbackScorer{
				Feedback:    req.Feedback,
				HorizonDays: cfg.DecayHorizonDays,
				MinCount:    cfg.MinFeedbackCount,
			}, Weight: weights.Feedback},
		},
		PenaltyFactor: cfg.PenaltyFactor,
		MaxReasons:    cfg.MaxReasons,
	}

	selector := NewSelector(req.K)
	result := Result{}

	for i := range req.Candidates {
		course := req.Candidates[i]
		if course.ID == "" {
			result.Skipped++
			continue
		}
		breakdown := agg.Aggregate(&course, &req.Profile)
		selector.Offer(Recommendation{Course: course, Breakdown: breakdown})
	}

	result.Recommendations = selector.Results()
	if sink != nil {
		for _, rec := range result.Recommendations {
			sink.EmitBreakdown(rec.Course.ID, rec.Breakdown)
		}
	}
	return result
}

package database

import (
	"context"

	"github.com/unihelper/coursematch/internal/engine"
)

// RunRecorder buffers the breakdowns the engine emits during one
// scoring pass and persists them as a recommendation run. It implements
// engine.AuditSink.
type RunRecorder struct {
	db        *DB
	studentID string
	emitted   []StoredResult
}

// NewRunRecorder returns a recorder for one scoring pass.
func (db *DB) NewRunRecorder(studentID string) *RunRecorder {
	return &RunRecorder{db: db, studentID: studentID}
}

// EmitBreakdown receives one selected breakdown from the engine, in
// rank order.
func (r *RunRecorder) EmitBreakdown(courseID string, breakdown engine.ScoreBreakdown) {
	r.emitted = append(r.emitted, StoredResult{
		Position:   len(r.emitted) + 1,
		CourseID:   courseID,
		FinalScore: breakdown.Final,
		Breakdown:  breakdown,
	})
}

// Flush persists the buffered run and returns it.
func (r *RunRecorder) Flush(ctx context.Context, skipped int) (*RecommendationRun, error) {
	run := &RecommendationRun{StudentID: r.studentID, Skipped: skipped}

	recs := make([]engine.Recommendation, len(r.emitted))
	for i, res := range r.emitted {
		recs[i] = engine.Recommendation{
			Course:    engine.Course{ID: res.CourseID},
			Breakdown: res.Breakdown,
		}
	}

	if err := r.db.SaveRun(ctx, run, recs); err != nil {
		return nil, err
	}
	return run, nil
}

package database

import (
	"time"

	"github.com/unihelper/coursematch/internal/engine"
)

// Student is a persisted student with the profile the engine scores
// against.
type Student struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Profile   engine.StudentProfile `json:"profile"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FeedbackEvent is one recorded thumbs-up or thumbs-down on a course,
// optionally attributed to a student.
type FeedbackEvent struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	StudentID *string   `json:"student_id,omitempty"`
	Positive  bool      `json:"positive"`
	CreatedAt time.Time `json:"created_at"`
}

// RecommendationRun is one persisted scoring pass, kept for audit and
// replay.
type RecommendationRun struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Skipped   int       `json:"skipped"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredResult is one ranked result inside a persisted run, with the
// full breakdown retained verbatim.
type StoredResult struct {
	RunID      string                `json:"run_id"`
	Position   int                   `json:"position"`
	CourseID   string                `json:"course_id"`
	FinalScore float64               `json:"final_score"`
	Breakdown  engine.ScoreBreakdown `json:"breakdown"`
}

// Stats represents aggregate statistics
type Stats struct {
	TotalCourses     int `json:"total_courses"`
	TotalStudents    int `json:"total_students"`
	PositiveFeedback int `json:"positive_feedback"`
	NegativeFeedback int `json:"negative_feedback"`
	TotalRuns        int `json:"total_runs"`
}

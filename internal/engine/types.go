package engine

// Grade is a letter grade on the seven-point scale (A* down to U).
type Grade string

const (
	GradeAStar Grade = "A*"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeE     Grade = "E"
	GradeU     Grade = "U"
)

// Preferences holds a student's stated preferences for one scoring pass.
// Zero values mean "no preference" (any region, no budget cap, any size).
type Preferences struct {
	Region            string   `json:"region,omitempty"`
	MaxAnnualFee      float64  `json:"max_annual_fee,omitempty"`
	InstitutionSize   string   `json:"institution_size,omitempty"`
	CourseLengthYears int      `json:"course_length_years,omitempty"`
	Interests         []string `json:"interests,omitempty"`
}

// StudentProfile is the academic and preference snapshot scored against
// each candidate course. It is constructed fresh per recommendation
// request and never mutated during scoring.
type StudentProfile struct {
	ID              string           `json:"id"`
	Subjects        []string         `json:"subjects"`
	PredictedGrades map[string]Grade `json:"predicted_grades"`
	Preferences     Preferences      `json:"preferences"`
}

// StudiesSubject reports whether the profile lists the given subject.
func (p *StudentProfile) StudiesSubject(subject string) bool {
	for _, s := range p.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// Course is one scoring candidate, hydrated once per request from the
// pre-filtered candidate pool and read-only during scoring.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Provider    string `json:"provider,omitempty"`
	Description string `json:"description,omitempty"`

	RequiredSubjects  map[string]Grade `json:"required_subjects,omitempty"`
	TariffRequirement float64          `json:"tariff_requirement,omitempty"` // 0 = unknown

	Fee             float64  `json:"fee"`
	DurationYears   int      `json:"duration_years"`
	Region          string   `json:"region,omitempty"`
	InstitutionSize string   `json:"institution_size,omitempty"`
	InstitutionRank int      `json:"institution_rank,omitempty"` // 0 = unknown
	Employability   *float64 `json:"employability,omitempty"`    // 0-100, nil = unknown
}

// Text returns the free-text fields used for career-interest matching.
func (c *Course) Text() string {
	s := c.Title
	if c.Description != "" {
		s += " " + c.Description
	}
	return s
}

// ScoringWeights holds the per-component weights. They are not required
// to sum to 1.0; the aggregator divides by the weight total.
type ScoringWeights struct {
	Subject       float64 `json:"subject"`
	Grade         float64 `json:"grade"`
	Preference    float64 `json:"preference"`
	Ranking       float64 `json:"ranking"`
	Employability float64 `json:"employability"`
	Feedback      float64 `json:"feedback"`
}

// FeedbackEvent is one positive or negative feedback signal with its
// age in days at scoring time.
type FeedbackEvent struct {
	Positive bool    `json:"positive"`
	AgeDays  float64 `json:"age_days"`
}

// FeedbackSummary aggregates the feedback events for one course. The
// engine only reads it; mutation lives in the external feedback store.
type FeedbackSummary struct {
	Events []FeedbackEvent `json:"events"`
}

// ScoreBreakdown is the per-course output of aggregation: the blended
// final score, every component's raw value, whether the
// missing-requirement penalty was applied, and the reason strings
// collected from the components. Persisted verbatim for audit.
type ScoreBreakdown struct {
	Final          float64            `json:"final"`
	Components     map[string]float64 `json:"components"`
	PenaltyApplied bool               `json:"penalty_applied"`
	Reasons        []string           `json:"reasons,omitempty"`
}

// Recommendation pairs a course with its score breakdown.
type Recommendation struct {
	Course    Course         `json:"course"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

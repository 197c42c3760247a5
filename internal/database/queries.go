package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unihelper/coursematch/internal/engine"
)

// UpsertCourse inserts or replaces a course and its subject requirements
func (db *DB) UpsertCourse(ctx context.Context, c *engine.Course) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO courses (
				id, title, provider, description, region, institution_size,
				institution_rank, employability_score, fee, duration_years,
				tariff_requirement, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				provider = excluded.provider,
				description = excluded.description,
				region = excluded.region,
				institution_size = excluded.institution_size,
				institution_rank = excluded.institution_rank,
				employability_score = excluded.employability_score,
				fee = excluded.fee,
				duration_years = excluded.duration_years,
				tariff_requirement = excluded.tariff_requirement,
				updated_at = excluded.updated_at
		`,
			c.ID, c.Title, c.Provider, c.Description, c.Region, c.InstitutionSize,
			c.InstitutionRank, nullFloat(c.Employability), c.Fee, c.DurationYears,
			c.TariffRequirement, now, now,
		)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM course_requirements WHERE course_id = ?`, c.ID); err != nil {
			return err
		}
		for subject, grade := range c.RequiredSubjects {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO course_requirements (course_id, subject, min_grade)
				VALUES (?, ?, ?)
			`, c.ID, subject, string(grade))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

const courseColumns = `
	id, title, provider, description, region, institution_size,
	institution_rank, employability_score, fee, duration_years, tariff_requirement
`

func scanCourse(row interface{ Scan(...any) error }) (*engine.Course, error) {
	c := &engine.Course{}
	var provider, description, region, size sql.NullString
	var employability sql.NullFloat64

	err := row.Scan(
		&c.ID, &c.Title, &provider, &description, &region, &size,
		&c.InstitutionRank, &employability, &c.Fee, &c.DurationYears, &c.TariffRequirement,
	)
	if err != nil {
		return nil, err
	}

	c.Provider = provider.String
	c.Description = description.String
	c.Region = region.String
	c.InstitutionSize = size.String
	if employability.Valid {
		v := employability.Float64
		c.Employability = &v
	}
	return c, nil
}

// GetCourse retrieves a course by id, or nil if not found
func (db *DB) GetCourse(ctx context.Context, id string) (*engine.Course, error) {
	row := db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := db.loadRequirements(ctx, []*engine.Course{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCourses retrieves the whole catalog, ordered by id
func (db *DB) ListCourses(ctx context.Context) ([]engine.Course, error) {
	return db.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
}

// ListCandidates retrieves the candidate pool for a profile: region and
// budget pre-filtering belongs to this storage layer, not the scoring
// engine. Results are ordered by id so a pool built from the same data
// is always presented to the engine in the same order.
func (db *DB) ListCandidates(ctx context.Context, p *engine.StudentProfile) ([]engine.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE 1=1`
	args := []any{}

	if r := p.Preferences.Region; r != "" && !strings.EqualFold(r, "any") {
		query += ` AND LOWER(region) = LOWER(?)`
		args = append(args, r)
	}
	if p.Preferences.MaxAnnualFee > 0 {
		query += ` AND fee <= ?`
		args = append(args, p.Preferences.MaxAnnualFee)
	}
	query += ` ORDER BY id`

	return db.queryCourses(ctx, query, args...)
}

func (db *DB) queryCourses(ctx context.Context, query string, args ...any) ([]engine.Course, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []engine.Course
	var refs []*engine.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range courses {
		refs = append(refs, &courses[i])
	}
	if err := db.loadRequirements(ctx, refs); err != nil {
		return nil, err
	}
	return courses, nil
}

// loadRequirements attaches subject requirements to the given courses
// in one query
func (db *DB) loadRequirements(ctx context.Context, courses []*engine.Course) error {
	if len(courses) == 0 {
		return nil
	}

	byID := make(map[string]*engine.Course, len(courses))
	placeholders := make([]string, 0, len(courses))
	args := make([]any, 0, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
		placeholders = append(placeholders, "?")
		args = append(args, c.ID)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT course_id, subject, min_grade
		FROM course_requirements
		WHERE course_id IN (`+strings.Join(placeholders, ",")+`)
	`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var courseID, subject, grade string
		if err := rows.Scan(&courseID, &subject, &grade); err != nil {
			return err
		}
		c := byID[courseID]
		if c.RequiredSubjects == nil {
			c.RequiredSubjects = make(map[string]engine.Grade)
		}
		c.RequiredSubjects[subject] = engine.Grade(grade)
	}
	return rows.Err()
}

// UpsertStudent inserts or replaces a student and their profile
func (db *DB) UpsertStudent(ctx context.Context, s *Student) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.Profile.ID = s.ID
	now := time.Now()

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO students (
				id, name, region, max_annual_fee, institution_size,
				course_length_years, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				region = excluded.region,
				max_annual_fee = excluded.max_annual_fee,
				institution_size = excluded.institution_size,
				course_length_years = excluded.course_length_years,
				updated_at = excluded.updated_at
		`,
			s.ID, s.Name, s.Profile.Preferences.Region, s.Profile.Preferences.MaxAnnualFee,
			s.Profile.Preferences.InstitutionSize, s.Profile.Preferences.CourseLengthYears,
			now, now,
		)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM student_subjects WHERE student_id = ?`, s.ID); err != nil {
			return err
		}
		for _, subject := range s.Profile.Subjects {
			var grade any
			if g, ok := s.Profile.PredictedGrades[subject]; ok {
				grade = string(g)
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO student_subjects (student_id, subject, predicted_grade)
				VALUES (?, ?, ?)
			`, s.ID, subject, grade)
			if err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM student_interests WHERE student_id = ?`, s.ID); err != nil {
			return err
		}
		for _, interest := range s.Profile.Preferences.Interests {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO student_interests (student_id, interest)
				VALUES (?, ?)
			`, s.ID, interest)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetStudent retrieves a student and hydrates the scoring profile, or
// returns nil if not found
func (db *DB) GetStudent(ctx context.Context, id string) (*Student, error) {
	s := &Student{}
	var region, size sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, name, region, max_annual_fee, institution_size,
		       course_length_years, created_at, updated_at
		FROM students WHERE id = ?
	`, id).Scan(
		&s.ID, &s.Name, &region, &s.Profile.Preferences.MaxAnnualFee, &size,
		&s.Profile.Preferences.CourseLengthYears, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Profile.ID = s.ID
	s.Profile.Preferences.Region = region.String
	s.Profile.Preferences.InstitutionSize = size.String

	rows, err := db.QueryContext(ctx, `
		SELECT subject, predicted_grade FROM student_subjects
		WHERE student_id = ? ORDER BY subject
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Profile.PredictedGrades = make(map[string]engine.Grade)
	for rows.Next() {
		var subject string
		var grade sql.NullString
		if err := rows.Scan(&subject, &grade); err != nil {
			return nil, err
		}
		s.Profile.Subjects = append(s.Profile.Subjects, subject)
		if grade.Valid {
			s.Profile.PredictedGrades[subject] = engine.Grade(grade.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	irows, err := db.QueryContext(ctx, `
		SELECT interest FROM student_interests
		WHERE student_id = ? ORDER BY interest
	`, id)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var interest string
		if err := irows.Scan(&interest); err != nil {
			return nil, err
		}
		s.Profile.Preferences.Interests = append(s.Profile.Preferences.Interests, interest)
	}
	return s, irows.Err()
}

// ListStudents retrieves id and name for every student
func (db *DB) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM students ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// CreateFeedback records one feedback event
func (db *DB) CreateFeedback(ctx context.Context, f *FeedbackEvent) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	var studentID any
	if f.StudentID != nil && *f.StudentID != "" {
		studentID = *f.StudentID
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO feedback_events (id, course_id, student_id, positive, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.CourseID, studentID, f.Positive, f.CreatedAt)
	return err
}

// FeedbackSummaries aggregates all feedback events per course, with
// each event's age in days, ready for the engine's feedback component
func (db *DB) FeedbackSummaries(ctx context.Context) (map[string]engine.FeedbackSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT course_id, positive,
		       (julianday('now') - julianday(created_at)) AS age_days
		FROM feedback_events
		ORDER BY course_id, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make(map[string]engine.FeedbackSummary)
	for rows.Next() {
		var courseID string
		var positive bool
		var ageDays float64
		if err := rows.Scan(&courseID, &positive, &ageDays); err != nil {
			return nil, err
		}
		if ageDays < 0 {
			ageDays = 0
		}
		summary := summaries[courseID]
		summary.Events = append(summary.Events, engine.FeedbackEvent{Positive: positive, AgeDays: ageDays})
		summaries[courseID] = summary
	}
	return summaries, rows.Err()
}

// SaveRun persists a recommendation run and its ranked results with
// full breakdowns for later replay
func (db *DB) SaveRun(ctx context.Context, run *RecommendationRun, results []engine.Recommendation) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recommendation_runs (id, student_id, skipped, created_at)
			VALUES (?, ?, ?, ?)
		`, run.ID, run.StudentID, run.Skipped, run.CreatedAt)
		if err != nil {
			return err
		}

		for i, rec := range results {
			breakdown, err := json.Marshal(rec.Breakdown)
			if err != nil {
				return fmt.Errorf("failed to encode breakdown: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO recommendation_results (run_id, position, course_id, final_score, breakdown_json)
				VALUES (?, ?, ?, ?, ?)
			`, run.ID, i+1, rec.Course.ID, rec.Breakdown.Final, string(breakdown))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRun retrieves a stored run with its results, or nil if not found
func (db *DB) GetRun(ctx context.Context, id string) (*RecommendationRun, []StoredResult, error) {
	run := &RecommendationRun{}
	err := db.QueryRowContext(ctx, `
		SELECT id, student_id, skipped, created_at
		FROM recommendation_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.StudentID, &run.Skipped, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, position, course_id, final_score, breakdown_json
		FROM recommendation_results
		WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		var r StoredResult
		var breakdown string
		if err := rows.Scan(&r.RunID, &r.Position, &r.CourseID, &r.FinalScore, &breakdown); err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal([]byte(breakdown), &r.Breakdown); err != nil {
			return nil, nil, fmt.Errorf("failed to decode breakdown: %w", err)
		}
		results = append(results, r)
	}
	return run, results, rows.Err()
}

// ListRuns retrieves recent runs, newest first, optionally scoped to a
// student
func (db *DB) ListRuns(ctx context.Context, studentID string, limit int) ([]RecommendationRun, error) {
	query := `
		SELECT id, student_id, skipped, created_at
		FROM recommendation_runs WHERE 1=1
	`
	args := []any{}
	if studentID != "" {
		query += ` AND student_id = ?`
		args = append(args, studentID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RecommendationRun
	for rows.Next() {
		var r RecommendationRun
		if err := rows.Scan(&r.ID, &r.StudentID, &r.Skipped, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStats returns aggregate statistics
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM courses`, &stats.TotalCourses},
		{`SELECT COUNT(*) FROM students`, &stats.TotalStudents},
		{`SELECT COUNT(*) FROM feedback_events WHERE positive = 1`, &stats.PositiveFeedback},
		{`SELECT COUNT(*) FROM feedback_events WHERE positive = 0`, &stats.NegativeFeedback},
		{`SELECT COUNT(*) FROM recommendation_runs`, &stats.TotalRuns},
	}

	for _, q := range queries {
		if err := db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

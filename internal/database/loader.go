package database

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/unihelper/coursematch/internal/engine"
)

// LoadCoursesFromFile reads a course catalog from a JSON file.
func LoadCoursesFromFile(path string) ([]engine.Course, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read courses file: %w", err)
	}

	var courses []engine.Course
	if err := json.Unmarshal(b, &courses); err != nil {
		return nil, fmt.Errorf("unmarshal courses: %w", err)
	}

	for i, c := range courses {
		if c.Title == "" {
			return nil, fmt.Errorf("course %d (%s): title is required", i, c.ID)
		}
		if c.Employability != nil && (*c.Employability < 0 || *c.Employability > 100) {
			return nil, fmt.Errorf("course %d (%s): employability must be 0-100, got %g", i, c.ID, *c.Employability)
		}
	}
	return courses, nil
}

// studentFile is the import shape for one student.
type studentFile struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Profile engine.StudentProfile `json:"profile"`
}

// LoadStudentsFromFile reads student profiles from a JSON file. The
// profile invariant that every predicted grade refers to a studied
// subject is enforced here, before anything is persisted.
func LoadStudentsFromFile(path string) ([]Student, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read students file: %w", err)
	}

	var raw []studentFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal students: %w", err)
	}

	students := make([]Student, 0, len(raw))
	for i, sf := range raw {
		if sf.Name == "" {
			return nil, fmt.Errorf("student %d (%s): name is required", i, sf.ID)
		}
		for subject := range sf.Profile.PredictedGrades {
			if !sf.Profile.StudiesSubject(subject) {
				return nil, fmt.Errorf("student %d (%s): predicted grade for %s but subject not studied", i, sf.ID, subject)
			}
		}
		students = append(students, Student{
			ID:      sf.ID,
			Name:    sf.Name,
			Profile: sf.Profile,
		})
	}
	return students, nil
}

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"

	"github.com/unihelper/coursematch/internal/database"
	"github.com/unihelper/coursematch/internal/engine"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []engine.Recommendation:
		return recommendationsTable(w, v)
	case []engine.Course:
		return coursesTable(w, v)
	case *engine.Course:
		return courseDetail(w, v)
	case []database.Student:
		return studentsTable(w, v)
	case *database.Student:
		return studentDetail(w, v)
	case []database.RecommendationRun:
		return runsTable(w, v)
	case *database.Stats:
		return statsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func recommendationsTable(w io.Writer, recs []engine.Recommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("#", "Course", "Provider", "Score", "Penalty", "Top Reason")

	for i, rec := range recs {
		penalty := ""
		if rec.Breakdown.PenaltyApplied {
			penalty = "yes"
		}
		reason := ""
		if len(rec.Breakdown.Reasons) > 0 {
			reason = truncate(rec.Breakdown.Reasons[0], 50)
		}
		if err := table.Append([]string{
			fmt.Sprintf("%d", i+1),
			truncate(rec.Course.Title, 40),
			truncate(rec.Course.Provider, 25),
			fmt.Sprintf("%.3f", rec.Breakdown.Final),
			penalty,
			reason,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

// RecommendationDetail prints one recommendation with its full score
// breakdown
func RecommendationDetail(w io.Writer, rec *engine.Recommendation) error {
	fmt.Fprintf(w, "Course:      %s\n", rec.Course.Title)
	if rec.Course.Provider != "" {
		fmt.Fprintf(w, "Provider:    %s\n", rec.Course.Provider)
	}
	fmt.Fprintf(w, "Final score: %.3f\n", rec.Breakdown.Final)
	if rec.Breakdown.PenaltyApplied {
		fmt.Fprintln(w, "Penalty:     applied (required subjects not fully met)")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCOMPONENT\tVALUE")
	names := make([]string, 0, len(rec.Breakdown.Components))
	for name := range rec.Breakdown.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%.3f\n", name, rec.Breakdown.Components[name])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rec.Breakdown.Reasons) > 0 {
		fmt.Fprintln(w, "\nReasons:")
		for _, reason := range rec.Breakdown.Reasons {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
	}
	return nil
}

func coursesTable(w io.Writer, courses []engine.Course) error {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No courses found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPROVIDER\tREGION\tFEE\tTARIFF")
	fmt.Fprintln(tw, "--\t-----\t--------\t------\t---\t------")

	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\t%.0f\n",
			truncate(c.ID, 12),
			truncate(c.Title, 35),
			truncate(c.Provider, 25),
			c.Region,
			c.Fee,
			c.TariffRequirement,
		)
	}

	return tw.Flush()
}

func courseDetail(w io.Writer, c *engine.Course) error {
	fmt.Fprintf(w, "ID:          %s\n", c.ID)
	fmt.Fprintf(w, "Title:       %s\n", c.Title)
	if c.Provider != "" {
		fmt.Fprintf(w, "Provider:    %s\n", c.Provider)
	}
	if c.Region != "" {
		fmt.Fprintf(w, "Region:      %s\n", c.Region)
	}
	fmt.Fprintf(w, "Fee:         %.0f\n", c.Fee)
	fmt.Fprintf(w, "Duration:    %d year(s)\n", c.DurationYears)
	if c.InstitutionRank > 0 {
		fmt.Fprintf(w, "Rank:        #%d\n", c.InstitutionRank)
	}
	if c.Employability != nil {
		fmt.Fprintf(w, "Employability: %.0f%%\n", *c.Employability)
	}
	if c.TariffRequirement > 0 {
		fmt.Fprintf(w, "Tariff req:  %.0f\n", c.TariffRequirement)
	}

	if len(c.RequiredSubjects) > 0 {
		subjects := make([]string, 0, len(c.RequiredSubjects))
		for subject := range c.RequiredSubjects {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		fmt.Fprintln(w, "Required subjects:")
		for _, subject := range subjects {
			fmt.Fprintf(w, "  %s: %s or better\n", subject, c.RequiredSubjects[subject])
		}
	}
	return nil
}

func studentsTable(w io.Writer, students []database.Student) error {
	if len(students) == 0 {
		fmt.Fprintln(w, "No students found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	fmt.Fprintln(tw, "--\t----")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\n", truncate(s.ID, 16), s.Name)
	}
	return tw.Flush()
}

func studentDetail(w io.Writer, s *database.Student) error {
	fmt.Fprintf(w, "ID:      %s\n", s.ID)
	fmt.Fprintf(w, "Name:    %s\n", s.Name)

	subjects := append([]string(nil), s.Profile.Subjects...)
	sort.Strings(subjects)
	if len(subjects) > 0 {
		fmt.Fprintln(w, "Subjects:")
		for _, subject := range subjects {
			if grade, ok := s.Profile.PredictedGrades[subject]; ok {
				fmt.Fprintf(w, "  %s (predicted %s)\n", subject, grade)
			} else {
				fmt.Fprintf(w, "  %s\n", subject)
			}
		}
	}

	p := s.Profile.Preferences
	if p.Region != "" {
		fmt.Fprintf(w, "Region:  %s\n", p.Region)
	}
	if p.MaxAnnualFee > 0 {
		fmt.Fprintf(w, "Budget:  %.0f/year\n", p.MaxAnnualFee)
	}
	if p.InstitutionSize != "" {
		fmt.Fprintf(w, "Size:    %s\n", p.InstitutionSize)
	}
	if len(p.Interests) > 0 {
		fmt.Fprintf(w, "Interests: %s\n", strings.Join(p.Interests, ", "))
	}
	return nil
}

func runsTable(w io.Writer, runs []database.RecommendationRun) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recommendation runs found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTUDENT\tSKIPPED\tWHEN")
	fmt.Fprintln(tw, "---\t-------\t-------\t----")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			truncate(r.ID, 12), truncate(r.StudentID, 16), r.Skipped,
			r.CreatedAt.Format("Jan 02, 2006 15:04"))
	}
	return tw.Flush()
}

func statsTable(w io.Writer, stats *database.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Courses:\t%d\n", stats.TotalCourses)
	fmt.Fprintf(tw, "Students:\t%d\n", stats.TotalStudents)
	fmt.Fprintf(tw, "Positive feedback:\t%d\n", stats.PositiveFeedback)
	fmt.Fprintf(tw, "Negative feedback:\t%d\n", stats.NegativeFeedback)
	fmt.Fprintf(tw, "Recommendation runs:\t%d\n", stats.TotalRuns)
	return tw.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

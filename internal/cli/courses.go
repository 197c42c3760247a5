package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/database"
	"github.com/unihelper/coursematch/internal/output"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Manage the course catalog",
}

var coursesImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import courses from a JSON file",
	Long: `Import a course catalog from a JSON file. Existing courses with the
same id are replaced.

Example:
  coursematch courses import catalog.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCoursesImport,
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the course catalog",
	RunE:  runCoursesList,
}

var coursesShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show one course in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoursesShow,
}

func init() {
	coursesCmd.AddCommand(coursesImportCmd)
	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesShowCmd)
	rootCmd.AddCommand(coursesCmd)
}

func runCoursesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	courses, err := database.LoadCoursesFromFile(args[0])
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for i := range courses {
		if err := db.UpsertCourse(ctx, &courses[i]); err != nil {
			return fmt.Errorf("failed to import course %s: %w", courses[i].ID, err)
		}
	}

	fmt.Printf("Imported %d course(s).\n", len(courses))
	return nil
}

func runCoursesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	courses, err := db.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}

	return output.Output(outputFmt, courses)
}

func runCoursesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	course, err := db.GetCourse(ctx, args[0])
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if course == nil {
		return fmt.Errorf("course not found: %s", args[0])
	}

	return output.Output(outputFmt, course)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/database"
	"github.com/unihelper/coursematch/internal/output"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage student profiles",
}

var studentsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import student profiles from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsImport,
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	RunE:  runStudentsList,
}

var studentsShowCmd = &cobra.Command{
	Use:   "show <student-id>",
	Short: "Show one student's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudentsShow,
}

func init() {
	studentsCmd.AddCommand(studentsImportCmd)
	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsShowCmd)
	rootCmd.AddCommand(studentsCmd)
}

func runStudentsImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	students, err := database.LoadStudentsFromFile(args[0])
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for i := range students {
		if err := db.UpsertStudent(ctx, &students[i]); err != nil {
			return fmt.Errorf("failed to import student %s: %w", students[i].Name, err)
		}
	}

	fmt.Printf("Imported %d student(s).\n", len(students))
	return nil
}

func runStudentsList(cmd *cobra.Command, args []string) error {
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

	students, err := db.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	return output.Output(outputFmt, students)
}

func runStudentsShow(cmd *cobra.Command, args []string) error {
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

	student, err := db.GetStudent(ctx, args[0])
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if student == nil {
		return fmt.Errorf("student not found: %s", args[0])
	}

	return output.Output(outputFmt, student)
}

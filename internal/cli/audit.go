package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/database"
	"github.com/unihelper/coursematch/internal/engine"
	"github.com/unihelper/coursematch/internal/output"
)

var auditStudent string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect persisted recommendation runs",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent recommendation runs",
	RunE:  runAuditList,
}

var auditShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Replay a stored run with its full score breakdowns",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditShow,
}

func init() {
	auditListCmd.Flags().StringVar(&auditStudent, "student", "",
		"only show runs for this student")
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditShowCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditList(cmd *cobra.Command, args []string) error {
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

	runs, err := db.ListRuns(ctx, auditStudent, 20)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	return output.Output(outputFmt, runs)
}

func runAuditShow(cmd *cobra.Command, args []string) error {
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

	run, results, err := db.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", args[0])
	}

	if outputFmt == "json" {
		return output.JSON(map[string]any{"run": run, "results": results})
	}

	fmt.Printf("Run %s for student %s (%s, %d candidate(s) skipped)\n\n",
		run.ID, run.StudentID, run.CreatedAt.Format("Jan 02, 2006 15:04"), run.Skipped)

	for _, result := range results {
		course, err := db.GetCourse(ctx, result.CourseID)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		rec := engine.Recommendation{Breakdown: result.Breakdown}
		if course != nil {
			rec.Course = *course
		} else {
			rec.Course = engine.Course{ID: result.CourseID, Title: result.CourseID + " (no longer in catalog)"}
		}

		fmt.Printf("--- #%d ---\n", result.Position)
		if err := output.RecommendationDetail(cmd.OutOrStdout(), &rec); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

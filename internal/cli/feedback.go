package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/database"
)

var feedbackStudent string

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record feedback on recommended courses",
	Long: `Record positive or negative feedback on a course. Feedback feeds
back into future rankings with a time decay: recent, consistent signals
move a course's score, isolated or stale ones do not.`,
}

var feedbackPositiveCmd = &cobra.Command{
	Use:   "positive <course-id>",
	Short: "Record that a recommendation was a good match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordFeedback(cmd, args[0], true)
	},
}

var feedbackNegativeCmd = &cobra.Command{
	Use:   "negative <course-id>",
	Short: "Record that a recommendation was a poor match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordFeedback(cmd, args[0], false)
	},
}

func init() {
	feedbackCmd.PersistentFlags().StringVar(&feedbackStudent, "student", "",
		"attribute the feedback to a student")
	feedbackCmd.AddCommand(feedbackPositiveCmd)
	feedbackCmd.AddCommand(feedbackNegativeCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func recordFeedback(cmd *cobra.Command, courseID string, positive bool) error {
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

	course, err := db.GetCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if course == nil {
		return fmt.Errorf("course not found: %s", courseID)
	}

	event := &database.FeedbackEvent{
		CourseID: course.ID,
		Positive: positive,
	}
	if feedbackStudent != "" {
		event.StudentID = &feedbackStudent
	}

	if err := db.CreateFeedback(ctx, event); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	kind := "positive"
	if !positive {
		kind = "negative"
	}
	fmt.Printf("Recorded %s feedback for '%s'.\n", kind, course.Title)
	fmt.Println("Future rankings will weigh this in, decaying over time.")
	return nil
}

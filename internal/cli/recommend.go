package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/database"
	"github.com/unihelper/coursematch/internal/engine"
	"github.com/unihelper/coursematch/internal/output"
	"github.com/unihelper/coursematch/internal/taxonomy"
)

var (
	recommendTopK    int
	recommendWeights []string
	recommendNoAudit bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <student-id>",
	Short: "Rank candidate courses for a student",
	Long: `Score every candidate course against a student's profile and print
the top-ranked matches with their score breakdowns.

The candidate pool is pre-filtered by region and budget before scoring;
weights come from the config file and can be overridden per run.

Examples:
  coursematch recommend stu-42
  coursematch recommend stu-42 --top 5
  coursematch recommend stu-42 --weight feedback=0 --weight grade=2.0`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendTopK, "top", "k", 0,
		"number of results (default from config)")
	recommendCmd.Flags().StringArrayVar(&recommendWeights, "weight", nil,
		"override a component weight, e.g. --weight grade=2.0")
	recommendCmd.Flags().BoolVar(&recommendNoAudit, "no-audit", false,
		"skip persisting the run for audit")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	studentID := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	student, err := db.GetStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if student == nil {
		return fmt.Errorf("student not found: %s", studentID)
	}

	candidates, err := db.ListCandidates(ctx, &student.Profile)
	if err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}

	feedback, err := db.FeedbackSummaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load feedback: %w", err)
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	weights, err := weightsFromConfig(cfg, recommendWeights)
	if err != nil {
		return err
	}

	k := recommendTopK
	if k <= 0 {
		k = cfg.Scoring.TopK
	}

	req := engine.Request{
		Profile:    student.Profile,
		Candidates: candidates,
		Feedback:   feedback,
		Weights:    weights,
		K:          k,
	}

	var result engine.Result
	var savedRunID string
	if recommendNoAudit {
		result = eng.Recommend(req)
	} else {
		recorder := db.NewRunRecorder(studentID)
		result = eng.RecommendAudited(req, recorder)
		run, err := recorder.Flush(ctx, result.Skipped)
		if err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
		savedRunID = run.ID
	}

	if result.Skipped > 0 {
		fmt.Printf("Skipped %d candidate(s) with no course id.\n", result.Skipped)
	}
	fmt.Printf("Top %d of %d candidate(s) for %s:\n\n",
		len(result.Recommendations), len(candidates), student.Name)

	if err := output.Output(outputFmt, result.Recommendations); err != nil {
		return err
	}
	if savedRunID != "" {
		fmt.Printf("\nRun %s saved. Replay with 'coursematch audit show %s'.\n", savedRunID, savedRunID)
	}
	return nil
}

// buildEngine loads the taxonomy and assembles the engine from config
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	return engine.New(engine.Config{
		Weights: engine.ScoringWeights{
			Subject:       cfg.Weights.Subject,
			Grade:         cfg.Weights.Grade,
			Preference:    cfg.Weights.Preference,
			Ranking:       cfg.Weights.Ranking,
			Employability: cfg.Weights.Employability,
			Feedback:      cfg.Weights.Feedback,
		},
		PenaltyFactor:    cfg.Scoring.PenaltyFactor,
		InterestWeight:   cfg.Scoring.InterestWeight,
		DecayHorizonDays: float64(cfg.Feedback.DecayHorizonDays),
		MinFeedbackCount: cfg.Feedback.MinCount,
		MaxReasons:       cfg.Scoring.MaxReasons,
		Matcher:          taxonomy.NewMatcher(tax),
	}), nil
}

// weightsFromConfig applies --weight name=value overrides on top of the
// configured weights. Returns nil when nothing is overridden so the
// engine uses its own configuration.
func weightsFromConfig(cfg *config.Config, overrides []string) (*engine.ScoringWeights, error) {
	if len(overrides) == 0 {
		return nil, nil
	}

	w := engine.ScoringWeights{
		Subject:       cfg.Weights.Subject,
		Grade:         cfg.Weights.Grade,
		Preference:    cfg.Weights.Preference,
		Ranking:       cfg.Weights.Ranking,
		Employability: cfg.Weights.Employability,
		Feedback:      cfg.Weights.Feedback,
	}

	for _, override := range overrides {
		name, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid weight override %q (want name=value)", override)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid weight value in %q (want a non-negative number)", override)
		}
		switch strings.ToLower(name) {
		case engine.ComponentSubject:
			w.Subject = v
		case engine.ComponentGrade:
			w.Grade = v
		case engine.ComponentPreference:
			w.Preference = v
		case engine.ComponentRanking:
			w.Ranking = v
		case engine.ComponentEmployability:
			w.Employability = v
		case engine.ComponentFeedback:
			w.Feedback = v
		default:
			return nil, fmt.Errorf("unknown weight component %q", name)
		}
	}
	return &w, nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/database"
	"github.com/unihelper/coursematch/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog and feedback statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	stats, err := db.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	return output.Output(outputFmt, stats)
}

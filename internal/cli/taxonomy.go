package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unihelper/coursematch/internal/config"
	"github.com/unihelper/coursematch/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the career-interest taxonomy",
}

var taxonomyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the taxonomy file",
	Long: `Load and validate the taxonomy file. Structural problems
(self-conflicts, conflicts with unknown interests, bad match modes)
are rejected here rather than surfacing during scoring.`,
	RunE: runTaxonomyCheck,
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List interests, keywords, and conflicts",
	RunE:  runTaxonomyShow,
}

func init() {
	taxonomyCmd.AddCommand(taxonomyCheckCmd)
	taxonomyCmd.AddCommand(taxonomyShowCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomyCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return err
	}

	fmt.Printf("Taxonomy OK: %d interest(s) at %s\n", len(tax.Interests), cfg.Taxonomy.Path)
	return nil
}

func runTaxonomyShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return err
	}

	for _, interest := range tax.Interests {
		fmt.Printf("%s\n", interest.Name)
		for _, kw := range interest.Keywords {
			mode := kw.Mode
			if mode == "" {
				mode = taxonomy.ModeContains
			}
			fmt.Printf("  keyword %q (priority %d, %s)\n", kw.Keyword, kw.Priority, mode)
		}
		if len(interest.Conflicts) > 0 {
			var conflicts []string
			for _, c := range interest.Conflicts {
				conflicts = append(conflicts, fmt.Sprintf("%s (%s)", c.With, c.Strength))
			}
			fmt.Printf("  conflicts: %s\n", strings.Join(conflicts, ", "))
		}
		fmt.Println()
	}
	return nil
}

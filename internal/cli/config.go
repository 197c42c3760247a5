package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration and taxonomy files",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "coursematch")
	dataDir := filepath.Join(home, ".local", "share", "coursematch")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")
	taxonomyFile := filepath.Join(configDir, "taxonomy.toml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'coursematch config show' to view current configuration")
		return nil
	}

	// Write default config
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Printf("Created config file at %s\n", configFile)

	if _, err := os.Stat(taxonomyFile); os.IsNotExist(err) {
		if err := os.WriteFile(taxonomyFile, []byte(defaultTaxonomy), 0644); err != nil {
			return fmt.Errorf("failed to write taxonomy file: %w", err)
		}
		fmt.Printf("Created taxonomy file at %s\n", taxonomyFile)
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Import a course catalog: coursematch courses import courses.json")
	fmt.Println("  2. Import student profiles: coursematch students import students.json")
	fmt.Println("  3. Run: coursematch recommend <student-id>")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'coursematch config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# coursematch configuration

[database]
path = "~/.local/share/coursematch/coursematch.db"

[taxonomy]
path = "~/.config/coursematch/taxonomy.toml"

# Per-component scoring weights. They need not sum to 1.0; the engine
# divides by the weight total. Set a weight to 0 to disable a component.
[weights]
subject = 1.0
grade = 1.0
preference = 0.8
ranking = 0.5
employability = 0.6
feedback = 0.4

[scoring]
penalty_factor = 0.25   # multiplier when required subjects are unmet
interest_weight = 0.4   # career-interest share of the preference score
max_reasons = 12        # reason strings kept per breakdown
top_k = 10              # default number of results

[feedback]
decay_horizon_days = 90 # feedback older than this counts for nothing
min_count = 3           # events required before feedback moves a score
`

const defaultTaxonomy = `# Career-interest taxonomy
#
# Each interest lists (keyword, priority) pairs tested against course
# titles and descriptions, highest priority first. Match modes:
# contains (default), exact, starts_with, ends_with.
# Conflicts discount a match when the student also declares the other
# interest: weak, medium, or strong.

[[interests]]
name = "Software Engineering"
keywords = [
    { keyword = "software", priority = 10 },
    { keyword = "computer science", priority = 9 },
    { keyword = "programming", priority = 8 },
    { keyword = "computing", priority = 5 },
]

[[interests]]
name = "Medicine"
keywords = [
    { keyword = "medicine", priority = 10, mode = "exact" },
    { keyword = "medical", priority = 8 },
    { keyword = "clinical", priority = 6 },
]
conflicts = [
    { with = "Creative Arts", strength = "weak" },
]

[[interests]]
name = "Creative Arts"
keywords = [
    { keyword = "art", priority = 10, mode = "exact" },
    { keyword = "design", priority = 8 },
    { keyword = "creative", priority = 7 },
    { keyword = "music", priority = 6 },
]

[[interests]]
name = "Finance"
keywords = [
    { keyword = "finance", priority = 10 },
    { keyword = "accounting", priority = 9 },
    { keyword = "economics", priority = 7 },
]
`

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'coursematch config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse TOML
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads config or exits with error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Taxonomy.Path, err = expandPath(c.Taxonomy.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Taxonomy.Path == "" {
		errs = append(errs, errors.New("taxonomy.path is required"))
	}

	// Weights validation: negative weights would flip component rankings
	for name, w := range map[string]float64{
		"weights.subject":       c.Weights.Subject,
		"weights.grade":         c.Weights.Grade,
		"weights.preference":    c.Weights.Preference,
		"weights.ranking":       c.Weights.Ranking,
		"weights.employability": c.Weights.Employability,
		"weights.feedback":      c.Weights.Feedback,
	} {
		if w < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", name, w))
		}
	}

	// Scoring validation
	if c.Scoring.PenaltyFactor <= 0 || c.Scoring.PenaltyFactor > 1 {
		errs = append(errs, fmt.Errorf("scoring.penalty_factor must be in (0, 1], got %g", c.Scoring.PenaltyFactor))
	}
	if c.Scoring.InterestWeight < 0 || c.Scoring.InterestWeight > 1 {
		errs = append(errs, fmt.Errorf("scoring.interest_weight must be in [0, 1], got %g", c.Scoring.InterestWeight))
	}
	if c.Scoring.MaxReasons < 1 {
		errs = append(errs, errors.New("scoring.max_reasons must be at least 1"))
	}
	if c.Scoring.TopK < 1 {
		errs = append(errs, errors.New("scoring.top_k must be at least 1"))
	}

	// Feedback validation
	if c.Feedback.DecayHorizonDays < 1 {
		errs = append(errs, errors.New("feedback.decay_horizon_days must be at least 1"))
	}
	if c.Feedback.MinCount < 1 {
		errs = append(errs, errors.New("feedback.min_count must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the directories the database and taxonomy
// files live in
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		filepath.Dir(c.Taxonomy.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

package config

// Config represents the application configuration
type Config struct {
	Database Database `toml:"database"`
	Taxonomy Taxonomy `toml:"taxonomy"`
	Weights  Weights  `toml:"weights"`
	Scoring  Scoring  `toml:"scoring"`
	Feedback Feedback `toml:"feedback"`
}

// Database contains database settings
type Database struct {
	Path string `toml:"path"`
}

// Taxonomy points at the career-interest taxonomy file
type Taxonomy struct {
	Path string `toml:"path"`
}

// Weights holds the per-component scoring weights. They need not sum
// to 1.0; the engine normalizes by the weight total.
type Weights struct {
	Subject       float64 `toml:"subject"`
	Grade         float64 `toml:"grade"`
	Preference    float64 `toml:"preference"`
	Ranking       float64 `toml:"ranking"`
	Employability float64 `toml:"employability"`
	Feedback      float64 `toml:"feedback"`
}

// Scoring contains the aggregation and selection settings
type Scoring struct {
	PenaltyFactor  float64 `toml:"penalty_factor"`  // applied when required subjects are unmet
	InterestWeight float64 `toml:"interest_weight"` // career-interest share of the preference score
	MaxReasons     int     `toml:"max_reasons"`     // reason strings kept per breakdown
	TopK           int     `toml:"top_k"`           // default result count
}

// Feedback contains the feedback-learning settings
type Feedback struct {
	DecayHorizonDays int `toml:"decay_horizon_days"` // age at which feedback stops counting
	MinCount         int `toml:"min_count"`          // events required before feedback moves a score
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: Database{
			Path: "~/.local/share/coursematch/coursematch.db",
		},
		Taxonomy: Taxonomy{
			Path: "~/.config/coursematch/taxonomy.toml",
		},
		Weights: Weights{
			Subject:       1.0,
			Grade:         1.0,
			Preference:    0.8,
			Ranking:       0.5,
			Employability: 0.6,
			Feedback:      0.4,
		},
		Scoring: Scoring{
			PenaltyFactor:  0.25,
			InterestWeight: 0.4,
			MaxReasons:     12,
			TopK:           10,
		},
		Feedback: Feedback{
			DecayHorizonDays: 90,
			MinCount:         3,
		},
	}
}

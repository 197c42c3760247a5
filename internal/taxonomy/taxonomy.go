// Package taxonomy loads the career-interest taxonomy and matches
// course text against it. The taxonomy is read-only configuration:
// reloading means loading a fresh copy and handing the engine a new
// matcher, never mutating a loaded one.
package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// MatchMode selects how a keyword is tested against course text.
type MatchMode string

const (
	ModeContains   MatchMode = "contains"
	ModeExact      MatchMode = "exact"
	ModeStartsWith MatchMode = "starts_with"
	ModeEndsWith   MatchMode = "ends_with"
)

// Strength grades how hard a conflicting interest discounts a match.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// Factor returns the multiplicative discount for the strength. A
// conflicting match still counts, just discounted.
func (s Strength) Factor() float64 {
	switch s {
	case StrengthWeak:
		return 0.85
	case StrengthMedium:
		return 0.6
	case StrengthStrong:
		return 0.25
	default:
		return 1.0
	}
}

// Keyword is one (keyword, priority) pair with its match mode. Higher
// priority keywords are tested first.
type Keyword struct {
	Keyword  string    `toml:"keyword"`
	Priority int       `toml:"priority"`
	Mode     MatchMode `toml:"mode"`
}

// Conflict declares that matching this interest is discounted when the
// student also declares the named interest.
type Conflict struct {
	With     string   `toml:"with"`
	Strength Strength `toml:"strength"`
}

// Interest is one career-interest category.
type Interest struct {
	Name      string     `toml:"name"`
	Keywords  []Keyword  `toml:"keywords"`
	Conflicts []Conflict `toml:"conflicts"`
}

// Taxonomy is the full set of career-interest categories.
type Taxonomy struct {
	Interests []Interest `toml:"interests"`
}

// Load reads and validates a taxonomy file. Malformed taxonomies are
// rejected here, at load time, never during scoring.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}

	var t Taxonomy
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	return &t, nil
}

// Validate checks the taxonomy for structural problems: duplicate or
// empty names, empty keywords, unknown match modes or strengths,
// self-conflicts, and conflicts pointing at undeclared interests.
func (t *Taxonomy) Validate() error {
	var errs []error

	names := make(map[string]bool, len(t.Interests))
	for _, in := range t.Interests {
		if in.Name == "" {
			errs = append(errs, errors.New("interest with empty name"))
			continue
		}
		key := strings.ToLower(in.Name)
		if names[key] {
			errs = append(errs, fmt.Errorf("duplicate interest: %s", in.Name))
		}
		names[key] = true
	}

	for _, in := range t.Interests {
		if len(in.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("interest %s has no keywords", in.Name))
		}
		for _, kw := range in.Keywords {
			if strings.TrimSpace(kw.Keyword) == "" {
				errs = append(errs, fmt.Errorf("interest %s has an empty keyword", in.Name))
			}
			switch kw.Mode {
			case "", ModeContains, ModeExact, ModeStartsWith, ModeEndsWith:
			default:
				errs = append(errs, fmt.Errorf("interest %s keyword %q has unknown match mode %q", in.Name, kw.Keyword, kw.Mode))
			}
		}

		for _, conflict := range in.Conflicts {
			if strings.EqualFold(conflict.With, in.Name) {
				errs = append(errs, fmt.Errorf("interest %s conflicts with itself", in.Name))
				continue
			}
			if !names[strings.ToLower(conflict.With)] {
				errs = append(errs, fmt.Errorf("interest %s conflicts with unknown interest %s", in.Name, conflict.With))
			}
			switch conflict.Strength {
			case StrengthWeak, StrengthMedium, StrengthStrong:
			default:
				errs = append(errs, fmt.Errorf("interest %s has unknown conflict strength %q", in.Name, conflict.Strength))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

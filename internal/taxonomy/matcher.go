package taxonomy

import (
	"sort"
	"strings"
)

// compiledInterest is an interest prepared for matching: keywords
// lowercased and ordered by priority, conflicts keyed by lowercase name.
type compiledInterest struct {
	name      string
	keywords  []Keyword
	conflicts map[string]Strength
}

// Matcher tests course text against a validated taxonomy. It is
// immutable after construction and safe for concurrent use.
type Matcher struct {
	interests map[string]*compiledInterest
}

// NewMatcher compiles a taxonomy for matching. The taxonomy is assumed
// to have passed Validate.
func NewMatcher(t *Taxonomy) *Matcher {
	m := &Matcher{interests: make(map[string]*compiledInterest, len(t.Interests))}

	for _, in := range t.Interests {
		ci := &compiledInterest{
			name:      in.Name,
			keywords:  make([]Keyword, len(in.Keywords)),
			conflicts: make(map[string]Strength, len(in.Conflicts)),
		}
		for i, kw := range in.Keywords {
			mode := kw.Mode
			if mode == "" {
				mode = ModeContains
			}
			ci.keywords[i] = Keyword{
				Keyword:  strings.ToLower(kw.Keyword),
				Priority: kw.Priority,
				Mode:     mode,
			}
		}
		// Higher priority first; keyword text breaks ties so the
		// probe order is stable.
		sort.SliceStable(ci.keywords, func(i, j int) bool {
			if ci.keywords[i].Priority != ci.keywords[j].Priority {
				return ci.keywords[i].Priority > ci.keywords[j].Priority
			}
			return ci.keywords[i].Keyword < ci.keywords[j].Keyword
		})
		for _, c := range in.Conflicts {
			ci.conflicts[strings.ToLower(c.With)] = c.Strength
		}
		m.interests[strings.ToLower(in.Name)] = ci
	}
	return m
}

// Match scores how well the text aligns with the student's declared
// interests: each declared interest either matches (first keyword hit
// in priority order wins, no partial credit) or does not, and a match
// that conflicts with another declared interest is discounted by the
// strongest applicable conflict factor rather than excluded. The score
// is the mean contribution over the declared interests; the returned
// names are the interests that matched, for explainability.
func (m *Matcher) Match(text string, declared []string) (float64, []string) {
	if len(declared) == 0 {
		return 0, nil
	}

	textLower := strings.ToLower(text)

	total := 0.0
	var matched []string
	for _, name := range declared {
		ci, ok := m.interests[strings.ToLower(name)]
		if !ok {
			continue // not defined in the taxonomy: never matches
		}
		if !ci.matches(textLower) {
			continue
		}

		contribution := 1.0
		factor := 1.0
		for _, other := range declared {
			if strings.EqualFold(other, name) {
				continue
			}
			if strength, ok := conflictBetween(ci, m.interests[strings.ToLower(other)]); ok {
				if f := strength.Factor(); f < factor {
					factor = f
				}
			}
		}
		total += contribution * factor
		matched = append(matched, ci.name)
	}

	return total / float64(len(declared)), matched
}

// matches reports whether any keyword hits the text, probing in
// priority order.
func (ci *compiledInterest) matches(textLower string) bool {
	for _, kw := range ci.keywords {
		if keywordMatches(textLower, kw) {
			return true
		}
	}
	return false
}

func keywordMatches(textLower string, kw Keyword) bool {
	switch kw.Mode {
	case ModeExact:
		return containsWord(textLower, kw.Keyword)
	case ModeStartsWith:
		return strings.HasPrefix(textLower, kw.Keyword)
	case ModeEndsWith:
		return strings.HasSuffix(textLower, kw.Keyword)
	default:
		return strings.Contains(textLower, kw.Keyword)
	}
}

// conflictBetween looks up a configured conflict between a and b,
// checking both directions since the taxonomy file may declare it on
// either side.
func conflictBetween(a, b *compiledInterest) (Strength, bool) {
	if b == nil {
		return "", false
	}
	if s, ok := a.conflicts[strings.ToLower(b.name)]; ok {
		return s, true
	}
	if s, ok := b.conflicts[strings.ToLower(a.name)]; ok {
		return s, true
	}
	return "", false
}

// containsWord checks whether text contains the word with word-boundary
// awareness, so "art" does not match "artificial". Multi-word phrases
// fall back to a plain substring test.
func containsWord(text, word string) bool {
	if strings.Contains(word, " ") {
		return strings.Contains(text, word)
	}

	idx := strings.Index(text, word)
	if idx == -1 {
		return false
	}

	if idx > 0 && isWordChar(text[idx-1]) {
		return containsWord(text[idx+len(word):], word)
	}

	endIdx := idx + len(word)
	if endIdx < len(text) && isWordChar(text[endIdx]) {
		return containsWord(text[idx+len(word):], word)
	}

	return true
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

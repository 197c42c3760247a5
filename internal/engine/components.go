package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Scorer is the contract every score component implements: rate one
// course against one profile, returning a value in [0, 1] and
// human-readable reasons. Components never fail on missing optional
// data; they degrade to a neutral 0.5 and note the degradation.
type Scorer interface {
	Name() string
	Score(c *Course, p *StudentProfile) (float64, []string)
}

// neutralScore is what a component returns when the data it needs is
// absent.
const neutralScore = 0.5

// Component names, used as ScoreBreakdown keys and weight lookups.
const (
	ComponentSubject       = "subject"
	ComponentGrade         = "grade"
	ComponentPreference    = "preference"
	ComponentRanking       = "ranking"
	ComponentEmployability = "employability"
	ComponentFeedback      = "feedback"
)

// SubjectMatchRatio is the fraction of a course's required subjects the
// student studies. A course with no subject requirements matches fully.
// The aggregator also consults this ratio for the missing-requirement
// penalty.
func SubjectMatchRatio(c *Course, p *StudentProfile) float64 {
	if len(c.RequiredSubjects) == 0 {
		return 1.0
	}
	matched := 0
	for subject := range c.RequiredSubjects {
		if p.StudiesSubject(subject) {
			matched++
		}
	}
	return float64(matched) / float64(len(c.RequiredSubjects))
}

// SubjectScorer scores the overlap between required and studied subjects.
type SubjectScorer struct{}

func (SubjectScorer) Name() string { return ComponentSubject }

func (SubjectScorer) Score(c *Course, p *StudentProfile) (float64, []string) {
	if len(c.RequiredSubjects) == 0 {
		return 1.0, []string{"no subject requirements"}
	}

	var missing []string
	matched := 0
	for subject := range c.RequiredSubjects {
		if p.StudiesSubject(subject) {
			matched++
		} else {
			missing = append(missing, subject)
		}
	}
	sort.Strings(missing)

	ratio := float64(matched) / float64(len(c.RequiredSubjects))
	if len(missing) > 0 {
		return ratio, []string{fmt.Sprintf("missing required subjects: %s", strings.Join(missing, ", "))}
	}
	return ratio, []string{fmt.Sprintf("all %d required subjects studied", len(c.RequiredSubjects))}
}

// GradeScorer compares the student's tariff total over the subjects the
// course requires against the course's tariff requirement. Meeting the
// requirement exactly scores 0.5; exceeding it pushes above, falling
// short pushes below.
type GradeScorer struct{}

func (GradeScorer) Name() string { return ComponentGrade }

func (GradeScorer) Score(c *Course, p *StudentProfile) (float64, []string) {
	if c.TariffRequirement <= 0 {
		return neutralScore, []string{"course has no tariff requirement"}
	}

	studentTariff := 0.0
	overlap := 0
	for subject := range c.RequiredSubjects {
		grade, ok := p.PredictedGrades[subject]
		if !ok {
			continue
		}
		studentTariff += GradeToTariff(grade)
		overlap++
	}

	value := 0.5 + 0.5*clampSigned((studentTariff-c.TariffRequirement)/maxTariff)
	reason := fmt.Sprintf("predicted tariff %.0f vs required %.0f (over %d subject(s))",
		studentTariff, c.TariffRequirement, overlap)
	return value, []string{reason}
}

// InterestMatcher decides how well free-text course content aligns with
// a student's declared career interests. Implemented by the taxonomy
// package; abstracted here so the engine stays independent of taxonomy
// loading.
type InterestMatcher interface {
	Match(text string, declared []string) (float64, []string)
}

// DefaultInterestWeight is the fixed internal weight the preference
// component gives the career-interest alignment score.
const DefaultInterestWeight = 0.4

// PreferenceScorer averages region, budget, and institution-size checks
// and blends in career-interest alignment.
type PreferenceScorer struct {
	Matcher        InterestMatcher
	InterestWeight float64 // 0 means DefaultInterestWeight
}

func (PreferenceScorer) Name() string { return ComponentPreference }

func (s PreferenceScorer) Score(c *Course, p *StudentProfile) (float64, []string) {
	var reasons []string

	region := 0.0
	switch {
	case p.Preferences.Region == "" || strings.EqualFold(p.Preferences.Region, "any"):
		region = 1.0
	case strings.EqualFold(p.Preferences.Region, c.Region):
		region = 1.0
		reasons = append(reasons, fmt.Sprintf("in preferred region %s", c.Region))
	default:
		reasons = append(reasons, fmt.Sprintf("outside preferred region (%s vs %s)", c.Region, p.Preferences.Region))
	}

	budget := 0.0
	switch {
	case p.Preferences.MaxAnnualFee <= 0:
		budget = 1.0
	case c.Fee < 0:
		budget = neutralScore
		reasons = append(reasons, "course fee is malformed (negative)")
	default:
		budget = LinearScore(c.Fee, p.Preferences.MaxAnnualFee, 0)
		if c.Fee > p.Preferences.MaxAnnualFee {
			reasons = append(reasons, fmt.Sprintf("fee %.0f exceeds budget %.0f", c.Fee, p.Preferences.MaxAnnualFee))
		}
	}

	size := 0.0
	switch {
	case p.Preferences.InstitutionSize == "" || strings.EqualFold(p.Preferences.InstitutionSize, "any"):
		size = 1.0
	case strings.EqualFold(p.Preferences.InstitutionSize, c.InstitutionSize):
		size = 1.0
	default:
		reasons = append(reasons, fmt.Sprintf("institution size %s, preferred %s", c.InstitutionSize, p.Preferences.InstitutionSize))
	}

	base := (region + budget + size) / 3

	interest := neutralScore
	switch {
	case len(p.Preferences.Interests) == 0:
		reasons = append(reasons, "no career interests declared")
	case s.Matcher == nil:
		reasons = append(reasons, "no interest taxonomy configured")
	default:
		var matched []string
		interest, matched = s.Matcher.Match(c.Text(), p.Preferences.Interests)
		if len(matched) > 0 {
			reasons = append(reasons, fmt.Sprintf("matches career interests: %s", strings.Join(matched, ", ")))
		}
	}

	w := s.InterestWeight
	if w <= 0 {
		w = DefaultInterestWeight
	}
	return Clamp01((1-w)*base + w*interest), reasons
}

// RankingScorer rewards higher-ranked (lower numbered) institutions.
// The curve decays toward 0 as the rank grows but never reaches it.
type RankingScorer struct{}

func (RankingScorer) Name() string { return ComponentRanking }

func (RankingScorer) Score(c *Course, p *StudentProfile) (float64, []string) {
	if c.InstitutionRank <= 0 {
		return neutralScore, []string{"institution rank unknown"}
	}
	value := 1.0 / (1.0 + float64(c.InstitutionRank)/50.0)
	return value, []string{fmt.Sprintf("institution ranked #%d", c.InstitutionRank)}
}

// EmployabilityScorer maps the 0-100 employability figure onto [0, 1].
type EmployabilityScorer struct{}

func (EmployabilityScorer) Name() string { return ComponentEmployability }

func (EmployabilityScorer) Score(c *Course, p *StudentProfile) (float64, []string) {
	if c.Employability == nil {
		return neutralScore, []string{"employability unknown"}
	}
	return Clamp01(*c.Employability / 100.0), []string{fmt.Sprintf("employability %.0f%%", *c.Employability)}
}

// DefaultDecayHorizonDays is how long a feedback event keeps any weight.
const DefaultDecayHorizonDays = 90

// DefaultMinFeedbackCount is the event count below which feedback is
// considered too thin to move the score.
const DefaultMinFeedbackCount = 3

// FeedbackScorer blends historical feedback into the ranking. Each
// event contributes its sign scaled by a linear time decay (full weight
// at age 0, zero at the horizon and beyond); the summed signal is
// squashed so a handful of consistent events can swing the score but an
// isolated one cannot dominate.
type FeedbackScorer struct {
	Feedback    map[string]FeedbackSummary
	HorizonDays float64 // 0 means DefaultDecayHorizonDays
	MinCount    int     // 0 means DefaultMinFeedbackCount
}

func (FeedbackScorer) Name() string { return ComponentFeedback }

func (s FeedbackScorer) Score(c *Course, p *StudentProfile) (float64, []string) {
	summary, ok := s.Feedback[c.ID]
	minCount := s.MinCount
	if minCount <= 0 {
		minCount = DefaultMinFeedbackCount
	}
	if !ok || len(summary.Events) == 0 {
		return neutralScore, []string{"no feedback recorded"}
	}
	if len(summary.Events) < minCount {
		return neutralScore, []string{fmt.Sprintf("insufficient feedback (%d of %d events)", len(summary.Events), minCount)}
	}

	horizon := s.HorizonDays
	if horizon <= 0 {
		horizon = DefaultDecayHorizonDays
	}

	signal := 0.0
	for _, ev := range summary.Events {
		decay := decayFactor(ev.AgeDays, horizon)
		if ev.Positive {
			signal += decay
		} else {
			signal -= decay
		}
	}

	value := Clamp01(0.5 + signal/(2*float64(minCount)))
	return value, []string{fmt.Sprintf("feedback signal %.2f from %d event(s)", signal, len(summary.Events))}
}

// decayFactor falls linearly from 1.0 at age 0 to 0.0 at the horizon
// and stays 0 beyond it.
func decayFactor(ageDays, horizonDays float64) float64 {
	if ageDays < 0 {
		ageDays = 0
	}
	return Clamp01(1 - ageDays/horizonDays)
}

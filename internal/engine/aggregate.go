package engine

// DefaultPenaltyFactor scales down courses with unmet subject
// requirements. They stay visible in the ranking; outright exclusion is
// an upstream filtering concern.
const DefaultPenaltyFactor = 0.25

// DefaultMaxReasons caps how many reason strings a breakdown carries.
const DefaultMaxReasons = 12

// WeightedComponent pairs a score component with its weight.
type WeightedComponent struct {
	Scorer Scorer
	Weight float64
}

// Aggregator blends component scores into a final score via a weighted
// mean and assembles the ScoreBreakdown.
type Aggregator struct {
	Components    []WeightedComponent
	PenaltyFactor float64 // 0 means DefaultPenaltyFactor
	MaxReasons    int     // 0 means DefaultMaxReasons
}

// Aggregate scores one course against one profile. Negative weights are
// treated as zero; if every weight is zero the components are weighted
// equally instead of dividing by zero.
func (a *Aggregator) Aggregate(c *Course, p *StudentProfile) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		Components: make(map[string]float64, len(a.Components)),
	}

	totalWeight := 0.0
	for _, wc := range a.Components {
		if wc.Weight > 0 {
			totalWeight += wc.Weight
		}
	}
	equalWeights := totalWeight <= 0

	weightedSum := 0.0
	for _, wc := range a.Components {
		value, reasons := wc.Scorer.Score(c, p)
		value = Clamp01(value)
		breakdown.Components[wc.Scorer.Name()] = value
		breakdown.Reasons = append(breakdown.Reasons, reasons...)

		weight := wc.Weight
		if equalWeights {
			weight = 1.0
		} else if weight < 0 {
			weight = 0
		}
		weightedSum += weight * value
	}

	if equalWeights {
		totalWeight = float64(len(a.Components))
	}
	if totalWeight > 0 {
		breakdown.Final = Clamp01(weightedSum / totalWeight)
	}

	if SubjectMatchRatio(c, p) < 1.0 {
		penalty := a.PenaltyFactor
		if penalty <= 0 {
			penalty = DefaultPenaltyFactor
		}
		breakdown.Final *= penalty
		breakdown.PenaltyApplied = true
		breakdown.Reasons = append(breakdown.Reasons, "score penalized: required subjects not fully met")
	}

	if max := a.maxReasons(); len(breakdown.Reasons) > max {
		breakdown.Reasons = breakdown.Reasons[:max]
	}
	return breakdown
}

func (a *Aggregator) maxReasons() int {
	if a.MaxReasons > 0 {
		return a.MaxReasons
	}
	return DefaultMaxReasons
}

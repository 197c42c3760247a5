package engine

// gradeTariffs maps the seven-point grade scale to tariff points.
// E through A* are evenly spaced by 8; U is the zero floor.
var gradeTariffs = map[Grade]float64{
	GradeAStar: 56,
	GradeA:     48,
	GradeB:     40,
	GradeC:     32,
	GradeD:     24,
	GradeE:     16,
	GradeU:     0,
}

// maxTariff is the tariff value of the top grade, used to scale
// tariff differences into the unit interval.
const maxTariff = 56.0

// GradeToTariff converts a letter grade to tariff points. Grades
// outside the known scale map to 0.
func GradeToTariff(g Grade) float64 {
	return gradeTariffs[g]
}

// Clamp01 clamps x to [0, 1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// LinearScore interpolates value linearly between worst (0.0) and best
// (1.0), clamped to [0, 1]. When worst == best there is no gradient to
// interpolate on: the score is 1.0 if value is at least as good as
// best, otherwise 0.0.
func LinearScore(value, worst, best float64) float64 {
	if worst == best {
		if value <= best {
			return 1.0
		}
		return 0.0
	}
	return Clamp01((value - worst) / (best - worst))
}

// clampSigned clamps x to [-1, 1].
func clampSigned(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

package projection

import "math"

// Abramowitz & Stegun 7.1.26 rational approximation of erf, accurate
// to about 1.5e-7 absolute error, which is enough for percentage
// probabilities.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// CDF evaluates the standard normal cumulative distribution at x.
func CDF(x float64) float64 {
	sign := 1.0
	z := x / math.Sqrt2
	if z < 0 {
		sign = -1.0
		z = -z
	}
	t := 1.0 / (1.0 + erfP*z)
	y := 1.0 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-z*z)
	return 0.5 * (1.0 + sign*y)
}

// Probability maps a z-score to an integer percentage in [0, 100].
// Probability(0) == 50 and the mapping is monotonically non-decreasing.
func Probability(z float64) int {
	p := int(math.Round(CDF(z) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ZScores standardizes values against their own cohort: population
// mean and standard deviation of exactly the given slice. A cohort
// with zero spread yields all-zero scores instead of dividing by zero.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	std := math.Sqrt(variance)
	if std == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

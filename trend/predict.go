// Package trend fits a degree-1 least-squares line to monthly activity
// bucket counts and extrapolates one period ahead. It is pure: no storage
// access, no shared state.
package trend

import "errors"

// ErrNoSamples reports an empty bucket sequence; at least one count is
// required for a fit.
var ErrNoSamples = errors.New("trend: at least one bucket required")

// PredictNext fits counts against their indices (index 0 is the most recent
// bucket) and evaluates the fitted line at x = len(counts). A single-element
// input reproduces that value: the under-determined system resolves to a
// flat line through the one point, matching the pseudo-inverse solution.
func PredictNext(counts []int) (float64, error) {
	n := len(counts)
	if n == 0 {
		return 0, ErrNoSamples
	}
	if n == 1 {
		return float64(counts[0]), nil
	}

	var sumX, sumY, sumXX, sumXY float64
	for i, c := range counts {
		x, y := float64(i), float64(c)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn
	return slope*fn + intercept, nil
}

// ContinuedActivityProbability returns the predicted next-period count as a
// share of the most recent bucket, clamped into [0, 1]. A zero baseline is
// treated as certain continuation: with nothing recent to compare against
// the policy answer is 1, not a derived ratio. The result is a heuristic
// confidence score, not a calibrated probability.
func ContinuedActivityProbability(counts []int) (float64, error) {
	predicted, err := PredictNext(counts)
	if err != nil {
		return 0, err
	}
	if counts[0] == 0 {
		return 1, nil
	}
	prob := predicted / float64(counts[0])
	if prob < 0 {
		return 0, nil
	}
	if prob > 1 {
		return 1, nil
	}
	return prob, nil
}

package gaussian

import "math"

// LogSumExp computes log(Σ exp(w_i)) in a numerically stable way. An
// empty or all-(-Inf) input returns -Inf.
func LogSumExp(ws []float64) float64 {
	if len(ws) == 0 {
		return math.Inf(-1)
	}
	max := math.Inf(-1)
	for _, w := range ws {
		if w > max {
			max = w
		}
	}
	if math.IsInf(max, -1) {
		return math.Inf(-1)
	}
	var sum float64
	for _, w := range ws {
		sum += math.Exp(w - max)
	}
	return max + math.Log(sum)
}

// NormalizeLogWeights returns (w_i - logSum) for every w_i, plus logSum
// itself. normalize_log_weights(w + c) is invariant to the constant c in
// the normalized output; logSum shifts by c.
func NormalizeLogWeights(ws []float64) (normalized []float64, logSum float64) {
	logSum = LogSumExp(ws)
	normalized = make([]float64, len(ws))
	if math.IsInf(logSum, -1) {
		for i := range ws {
			normalized[i] = math.Inf(-1)
		}
		return normalized, logSum
	}
	for i, w := range ws {
		normalized[i] = w - logSum
	}
	return normalized, logSum
}

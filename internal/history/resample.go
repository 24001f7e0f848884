package history

import "math"

// precision is the fixed decimal precision applied to every emitted point.
const precision = 1e6

func round(v float64) float64 {
	return math.Round(v*precision) / precision
}

// Resample converts an arbitrary-length chronological price series into
// exactly n points. Longer inputs are downsampled by taking the sample at
// floor(i*len/n) for each output slot — nearest-below, no interpolation.
// Shorter inputs are copied and tail-padded with the final value. An empty
// input reports unavailable so callers can attach no history at all rather
// than a zero-filled one.
func Resample(series []float64, n int) ([]float64, bool) {
	if len(series) == 0 || n <= 0 {
		return nil, false
	}

	out := make([]float64, 0, n)

	if len(series) > n {
		step := float64(len(series)) / float64(n)
		for i := 0; i < n; i++ {
			out = append(out, round(series[int(float64(i)*step)]))
		}
		return out, true
	}

	for _, v := range series {
		out = append(out, round(v))
	}
	last := out[len(out)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out, true
}

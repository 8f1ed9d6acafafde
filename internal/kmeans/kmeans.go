package kmeans

import "math"

// OneDimKmeans performs k-means clustering on one-dimensional data with k=2.
// It classifies values into a high and a low cluster, starting from centers at the
// minimum and maximum and iterating until the midpoint between centers settles.
//
// The returned slice is true for values in the high cluster. Callers must ensure
// values are not all equal; otherwise every value lands in the high cluster.
func OneDimKmeans(values []float64) []bool {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	high := make([]bool, len(values))
	const etol = 1e-6
	for range 300 {
		threshold := (lo + hi) / 2
		var highs, lows average
		for i, v := range values {
			high[i] = threshold <= v
			if high[i] {
				highs.add(v)
			} else {
				lows.add(v)
			}
		}
		if highs.count == 0 || lows.count == 0 {
			break
		}
		lo, hi = lows.value(), highs.value()
		if math.Abs((lo+hi)/2-threshold) < etol {
			break
		}
	}
	return high
}

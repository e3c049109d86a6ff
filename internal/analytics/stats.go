// Package analytics maintains rolling per-trader state and derives
// performance snapshots from closed-trade events.
package analytics

import "math"

// Entropy returns the Shannon entropy of the value distribution in bits.
// An empty or single-valued window has zero entropy.
func Entropy(values []string) float64 {
	if len(values) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	n := float64(len(values))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Mean returns the arithmetic mean, or 0.0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, or 0.0 when fewer
// than two values are present.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

package ssr

import (
	"math"
	"strconv"
	"strings"
)

// DefaultEpsilon guards the inflation-ratio denominator and is the default
// clamp margin for AtanhSafe.
const DefaultEpsilon = 1e-12

// Clamp saturates x into [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// AtanhSafe clamps x into [-1+eps, 1-eps] before applying atanh, so inputs at
// or beyond the unit boundary map to a large finite value instead of ±Inf.
// A NaN input is treated as 0.
func AtanhSafe(x, eps float64) float64 {
	if math.IsNaN(x) {
		x = 0
	}
	x = Clamp(x, -1.0+eps, 1.0-eps)
	return 0.5 * math.Log((1.0+x)/(1.0-x))
}

// Percentile returns the p-th percentile of an ascending-sorted slice using
// linear interpolation between closest ranks.
// Callers pass []float64{0} instead of an empty slice; empty input yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0.0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx]*(float64(upperIdx)-rank) + sorted[upperIdx]*(rank-float64(lowerIdx))
}

// FormatParam renders a configuration value the way it is echoed in reasons
// and report headers: shortest round-trip digits, a trailing ".0" on whole
// numbers, exponent form outside [1e-4, 1e16), and inf/nan in lower case.
func FormatParam(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	abs := math.Abs(x)
	if x != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

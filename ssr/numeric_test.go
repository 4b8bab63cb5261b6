package ssr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp_SaturatesIntoRange(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{-2, -1},
		{-1, -1},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.x, -1, 1), "Clamp(%v)", tt.x)
	}
}

func TestPercentile_Endpoints_ReturnMinAndMax(t *testing.T) {
	// GIVEN a sorted sequence
	data := []float64{0.5, 1, 2, 8, 13}

	// THEN p<=0 is the minimum and p>=100 the maximum
	assert.Equal(t, 0.5, Percentile(data, 0))
	assert.Equal(t, 0.5, Percentile(data, -10))
	assert.Equal(t, 13.0, Percentile(data, 100))
	assert.Equal(t, 13.0, Percentile(data, 250))
}

func TestPercentile_OddLengthMedian_IsMiddleElement(t *testing.T) {
	assert.Equal(t, 3.0, Percentile([]float64{1, 2, 3, 4, 5}, 50))
	assert.Equal(t, 7.0, Percentile([]float64{-1, 7, 9}, 50))
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	// rank = 0.95 * 4 = 3.8 -> 4*0.2 + 5*0.8
	assert.InDelta(t, 4.8, Percentile([]float64{1, 2, 3, 4, 5}, 95), 1e-12)
	// rank = 0.5 * 3 = 1.5 -> midway between 2 and 3
	assert.InDelta(t, 2.5, Percentile([]float64{1, 2, 3, 4}, 50), 1e-12)
}

func TestPercentile_SingleSentinel_ReturnsSentinel(t *testing.T) {
	for _, p := range []float64{0, 50, 95, 100} {
		assert.Equal(t, 0.0, Percentile([]float64{0.0}, p))
	}
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestAtanhSafe_MatchesAtanhInsideRange(t *testing.T) {
	for _, x := range []float64{-0.9, -0.3, 0, 0.2, 0.75} {
		assert.InDelta(t, math.Atanh(x), AtanhSafe(x, DefaultEpsilon), 1e-12, "x=%v", x)
	}
}

func TestAtanhSafe_BoundaryAndBeyond_AreFinite(t *testing.T) {
	for _, x := range []float64{-1e9, -1, 1, 1e9, math.Inf(1), math.Inf(-1), math.NaN()} {
		got := AtanhSafe(x, DefaultEpsilon)
		assert.False(t, math.IsInf(got, 0) || math.IsNaN(got), "AtanhSafe(%v) = %v", x, got)
	}
	// saturates at the clamp
	assert.Equal(t, AtanhSafe(1, DefaultEpsilon), AtanhSafe(5, DefaultEpsilon))
	assert.Equal(t, AtanhSafe(-1, DefaultEpsilon), AtanhSafe(-5, DefaultEpsilon))
}

func TestAtanhSafe_Monotonic(t *testing.T) {
	prev := AtanhSafe(-1, DefaultEpsilon)
	for i := 1; i <= 2000; i++ {
		x := -1 + float64(i)/1000
		got := AtanhSafe(x, DefaultEpsilon)
		if got < prev {
			t.Fatalf("AtanhSafe not monotonic at x=%v: %v < %v", x, got, prev)
		}
		prev = got
	}
}

func TestFormatParam(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.05, "0.05"},
		{0.01, "0.01"},
		{1.2, "1.2"},
		{1, "1.0"},
		{2, "2.0"},
		{0, "0.0"},
		{-3, "-3.0"},
		{0.0001, "0.0001"},
		{1e-5, "1e-05"},
		{1e16, "1e+16"},
		{123456789, "123456789.0"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatParam(tt.in), "FormatParam(%v)", tt.in)
	}
}

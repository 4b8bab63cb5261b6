package ssr

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// StructuralPoint is the structural position of one sample.
type StructuralPoint struct {
	U   float64
	V   float64
	R   float64 // structural radius sqrt(u²+v²)
	Psi float64 // structural potential ½(u²+v²)
}

// RouteMetrics aggregates one route's path-length and gate results.
// Gate fields (Denied onwards) are zero until a Gate has been applied.
type RouteMetrics struct {
	Route string
	Rows  int

	LClassical float64
	LStruct    float64
	Eta        float64

	// MinPermission is only meaningful when HasPermission is true.
	MinPermission float64
	HasPermission bool

	MedianStep float64
	P95Step    float64
	MaxStep    float64

	MaxR   float64
	MaxPsi float64

	Denied               bool
	DenyReason           string
	PermissionViolations int
	SpikeViolations      int
	SpikeThreshold       float64
	HasSpikeThreshold    bool
}

// Route bundles a trace with everything computed from it.
type Route struct {
	Trace     *RouteTrace
	Points    []StructuralPoint
	StepCosts []float64
	Metrics   RouteMetrics
}

// Evaluate computes structural points, per-step costs and aggregate metrics
// for a trace. The trace is not modified.
func Evaluate(trace *RouteTrace) *Route {
	samples := trace.Samples
	n := len(samples)

	points := make([]StructuralPoint, n)
	radii := make([]float64, n)
	potentials := make([]float64, n)
	lClassical := 0.0
	for i, s := range samples {
		sq := s.U*s.U + s.V*s.V
		points[i] = StructuralPoint{U: s.U, V: s.V, R: math.Sqrt(sq), Psi: 0.5 * sq}
		radii[i] = points[i].R
		potentials[i] = points[i].Psi
		lClassical += math.Abs(s.DX)
	}

	var stepCosts []float64
	lStruct := 0.0
	for i := 0; i+1 < n; i++ {
		du := samples[i+1].U - samples[i].U
		dv := samples[i+1].V - samples[i].V
		dx := samples[i].DX
		step := math.Sqrt(dx*dx + du*du + dv*dv)
		stepCosts = append(stepCosts, step)
		lStruct += step
	}
	// The last sample has no successor, but its classical increment still counts.
	if n > 0 {
		lStruct += math.Abs(samples[n-1].DX)
	}

	sorted := []float64{0.0}
	if len(stepCosts) > 0 {
		sorted = append([]float64(nil), stepCosts...)
		sort.Float64s(sorted)
	}

	m := RouteMetrics{
		Route:      trace.Name,
		Rows:       n,
		LClassical: lClassical,
		LStruct:    lStruct,
		Eta:        lStruct / (lClassical + DefaultEpsilon),
		MedianStep: Percentile(sorted, 50),
		P95Step:    Percentile(sorted, 95),
		MaxStep:    sorted[len(sorted)-1],
	}
	if n > 0 {
		m.MaxR = floats.Max(radii)
		m.MaxPsi = floats.Max(potentials)
	}
	m.MinPermission, m.HasPermission = minPermission(samples)

	return &Route{Trace: trace, Points: points, StepCosts: stepCosts, Metrics: m}
}

func minPermission(samples []Sample) (float64, bool) {
	var valid []float64
	for _, s := range samples {
		if s.A.Valid {
			valid = append(valid, s.A.Value)
		}
	}
	if len(valid) == 0 {
		return math.NaN(), false
	}
	return floats.Min(valid), true
}

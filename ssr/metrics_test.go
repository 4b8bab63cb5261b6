package ssr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structural-safety/ssr/ssr/internal/testutil"
)

// uvTrace builds a u,v-sourced trace from (dx, u, v) triples.
func uvTrace(name string, triples ...[3]float64) *RouteTrace {
	tr := &RouteTrace{Name: name, Source: SourceUV}
	for _, s := range triples {
		tr.Samples = append(tr.Samples, Sample{DX: s[0], U: s[1], V: s[2]})
	}
	return tr
}

func TestEvaluate_KnownRoute_ComputesAllMetrics(t *testing.T) {
	// GIVEN three samples with one 3-4-5 structural jump
	tr := uvTrace("known", [3]float64{1, 0, 0}, [3]float64{1, 3, 4}, [3]float64{2, 3, 4})

	// WHEN evaluated
	r := Evaluate(tr)
	m := r.Metrics

	// THEN step costs are sqrt(1+9+16) and sqrt(1)
	require.Len(t, r.StepCosts, 2)
	testutil.AssertFloat64Equal(t, "step0", math.Sqrt(26), r.StepCosts[0], 1e-15)
	assert.Equal(t, 1.0, r.StepCosts[1])

	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 4.0, m.LClassical)
	// transitions plus |dx_last|
	testutil.AssertFloat64Equal(t, "L_struct", math.Sqrt(26)+1+2, m.LStruct, 1e-15)
	testutil.AssertFloat64Equal(t, "eta", (math.Sqrt(26)+3)/4, m.Eta, 1e-12)
	testutil.AssertFloat64Equal(t, "median", 0.5*(1+math.Sqrt(26)), m.MedianStep, 1e-12)
	testutil.AssertFloat64Equal(t, "p95", 0.05*1+0.95*math.Sqrt(26), m.P95Step, 1e-12)
	testutil.AssertFloat64Equal(t, "max", math.Sqrt(26), m.MaxStep, 1e-15)
	assert.Equal(t, 5.0, m.MaxR)
	assert.Equal(t, 12.5, m.MaxPsi)
	assert.False(t, m.HasPermission)
	assert.True(t, math.IsNaN(m.MinPermission))

	// AND structural points carry R and Psi per sample
	assert.Equal(t, StructuralPoint{U: 3, V: 4, R: 5, Psi: 12.5}, r.Points[1])
}

func TestEvaluate_SingleSample_UsesZeroSentinelStats(t *testing.T) {
	r := Evaluate(uvTrace("one", [3]float64{-2.5, 0.3, 0.4}))
	m := r.Metrics

	assert.Empty(t, r.StepCosts)
	assert.Equal(t, 2.5, m.LClassical)
	assert.Equal(t, 2.5, m.LStruct)
	assert.Equal(t, 0.0, m.MedianStep)
	assert.Equal(t, 0.0, m.P95Step)
	assert.Equal(t, 0.0, m.MaxStep)
	testutil.AssertFloat64Equal(t, "max_R", 0.5, m.MaxR, 1e-12)
}

func TestEvaluate_AllZeroDisplacement_EtaFiniteAndLarge(t *testing.T) {
	// GIVEN a route that never moves classically but moves structurally
	r := Evaluate(uvTrace("still", [3]float64{0, 0, 0}, [3]float64{0, 1, 0}))

	// THEN eta = L_struct / eps, finite
	assert.Equal(t, 0.0, r.Metrics.LClassical)
	assert.Equal(t, 1.0, r.Metrics.LStruct)
	assert.False(t, math.IsInf(r.Metrics.Eta, 0) || math.IsNaN(r.Metrics.Eta))
	testutil.AssertFloat64Equal(t, "eta", 1/DefaultEpsilon, r.Metrics.Eta, 1e-12)

	// AND an entirely static route has eta 0
	static := Evaluate(uvTrace("static", [3]float64{0, 1, 1}, [3]float64{0, 1, 1}))
	assert.Equal(t, 0.0, static.Metrics.Eta)
}

func TestEvaluate_EtaNonNegativeAndLStructAtLeastClassical(t *testing.T) {
	tr := uvTrace("mixed",
		[3]float64{-1, 0.2, -0.1}, [3]float64{2, -0.4, 0.3}, [3]float64{-0.5, 0.9, 0.0}, [3]float64{3, 0.1, 0.1})
	m := Evaluate(tr).Metrics

	assert.GreaterOrEqual(t, m.Eta, 0.0)
	assert.GreaterOrEqual(t, m.LStruct, m.LClassical*(1-1e-12))
}

func TestEvaluate_MinPermission_IgnoresInvalidSamples(t *testing.T) {
	tr := &RouteTrace{Name: "perm", Source: SourceAS, Samples: []Sample{
		{DX: 1, A: Permission{Value: 0.4, Valid: true}},
		{DX: 1, A: Permission{}},
		{DX: 1, A: Permission{Value: -0.2, Valid: true}},
	}}

	m := Evaluate(tr).Metrics

	assert.True(t, m.HasPermission)
	assert.Equal(t, -0.2, m.MinPermission)
}

func TestEvaluate_DoesNotMutateTrace(t *testing.T) {
	tr := uvTrace("immutable", [3]float64{1, 2, 3}, [3]float64{4, 5, 6})
	before := append([]Sample(nil), tr.Samples...)

	_ = Evaluate(tr)

	assert.Equal(t, before, tr.Samples)
}

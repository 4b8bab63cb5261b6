package ssr

import (
	"fmt"
	"sort"
)

// RankMetric names the scalar used to order allowed routes.
type RankMetric string

const (
	RankLStruct RankMetric = "L_struct"
	RankEta     RankMetric = "eta"
	RankP95Step RankMetric = "p95_step"
	RankMaxStep RankMetric = "max_step"
)

// rankKeys maps accepted rank metrics to their metric accessor.
var rankKeys = map[RankMetric]func(RouteMetrics) float64{
	RankLStruct: func(m RouteMetrics) float64 { return m.LStruct },
	RankEta:     func(m RouteMetrics) float64 { return m.Eta },
	RankP95Step: func(m RouteMetrics) float64 { return m.P95Step },
	RankMaxStep: func(m RouteMetrics) float64 { return m.MaxStep },
}

// IsValidRankMetric returns true if the given name is a recognized rank metric.
func IsValidRankMetric(name string) bool {
	_, ok := rankKeys[RankMetric(name)]
	return ok
}

// Value returns the metric's value for m. Panics on an unknown metric;
// RunConfig.Validate rejects those before any route is ranked.
func (r RankMetric) Value(m RouteMetrics) float64 {
	key, ok := rankKeys[r]
	if !ok {
		panic(fmt.Sprintf("unknown rank metric %q; valid metrics: [L_struct, eta, p95_step, max_step]", r))
	}
	return key(m)
}

// Rank partitions routes by their Denied flag and orders the allowed ones
// ascending by metric. Ties and the denied list keep input order.
// metric must be valid (see IsValidRankMetric) or Rank panics.
func Rank(routes []*Route, metric RankMetric) (allowed, denied []*Route) {
	for _, r := range routes {
		if r.Metrics.Denied {
			denied = append(denied, r)
		} else {
			allowed = append(allowed, r)
		}
	}
	sort.SliceStable(allowed, func(i, j int) bool {
		return metric.Value(allowed[i].Metrics) < metric.Value(allowed[j].Metrics)
	})
	return allowed, denied
}

package ssr

import (
	"fmt"
	"math"
	"strings"
)

// SpikeMode selects how the per-route step-cost spike threshold is resolved.
type SpikeMode string

const (
	// SpikeNone disables the spike gate.
	SpikeNone SpikeMode = "none"
	// SpikeAbsolute uses GateConfig.SpikeThreshold verbatim.
	SpikeAbsolute SpikeMode = "abs"
	// SpikeRelativeP95 uses SpikeK × the route's p95 step cost.
	SpikeRelativeP95 SpikeMode = "rel_p95"
	// SpikeRelativeMedian uses SpikeK × the route's median step cost.
	SpikeRelativeMedian SpikeMode = "rel_median"
)

// spikeModeAliases maps accepted spelling variants onto canonical modes.
var spikeModeAliases = map[string]SpikeMode{
	"":                   SpikeNone,
	"none":               SpikeNone,
	"off":                SpikeNone,
	"abs":                SpikeAbsolute,
	"absolute":           SpikeAbsolute,
	"rel_p95":            SpikeRelativeP95,
	"relative-to-p95":    SpikeRelativeP95,
	"rel_median":         SpikeRelativeMedian,
	"relative-to-median": SpikeRelativeMedian,
}

// ParseSpikeMode resolves a mode name or alias to its canonical form.
func ParseSpikeMode(name string) (SpikeMode, error) {
	if m, ok := spikeModeAliases[name]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown spike mode %q; valid modes: [none, abs, rel_p95, rel_median]", ErrConfig, name)
}

// DenyPolicy combines gate violation counts into a deny decision.
type DenyPolicy string

const (
	// DenyAny denies when any gate records at least one violation.
	DenyAny DenyPolicy = "any"
	// DenyFraction denies when a gate's violation fraction exceeds GateConfig.DenyFraction.
	DenyFraction DenyPolicy = "fraction"
)

// IsValidDenyPolicy returns true if the given name is a recognized deny policy.
func IsValidDenyPolicy(name string) bool {
	return DenyPolicy(name) == DenyAny || DenyPolicy(name) == DenyFraction
}

// GateConfig holds the deny-gate parameters for one run.
type GateConfig struct {
	AMin           float64    `yaml:"a_min"`
	SpikeMode      SpikeMode  `yaml:"spike_mode"`
	SpikeThreshold *float64   `yaml:"spike_threshold,omitempty"` // required for abs mode
	SpikeK         float64    `yaml:"spike_k"`
	DenyPolicy     DenyPolicy `yaml:"deny_policy"`
	DenyFraction   float64    `yaml:"deny_fraction"`
}

// DefaultGateConfig returns the gate defaults: a_min 0.05, spike gate off,
// multiplier 1.2, deny on any violation, fraction threshold 0.01.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		AMin:         0.05,
		SpikeMode:    SpikeNone,
		SpikeK:       1.2,
		DenyPolicy:   DenyAny,
		DenyFraction: 0.01,
	}
}

// Validate normalizes the spike mode and checks mode-specific requirements.
func (c *GateConfig) Validate() error {
	mode, err := ParseSpikeMode(string(c.SpikeMode))
	if err != nil {
		return err
	}
	c.SpikeMode = mode
	if c.DenyPolicy == "" {
		c.DenyPolicy = DenyAny
	}
	if !IsValidDenyPolicy(string(c.DenyPolicy)) {
		return fmt.Errorf("%w: unknown deny policy %q; valid policies: [any, fraction]", ErrConfig, c.DenyPolicy)
	}
	if math.IsNaN(c.AMin) {
		return fmt.Errorf("%w: a_min must be a number", ErrConfig)
	}
	switch c.SpikeMode {
	case SpikeAbsolute:
		if c.SpikeThreshold == nil {
			return fmt.Errorf("%w: --step-spike required when --step-spike-mode abs", ErrConfig)
		}
		if math.IsNaN(*c.SpikeThreshold) {
			return fmt.Errorf("%w: spike threshold must be a number", ErrConfig)
		}
	case SpikeRelativeP95, SpikeRelativeMedian:
		if math.IsNaN(c.SpikeK) || c.SpikeK < 0 {
			return fmt.Errorf("%w: spike multiplier must be >= 0, got %v", ErrConfig, c.SpikeK)
		}
	}
	if c.DenyPolicy == DenyFraction && (math.IsNaN(c.DenyFraction) || c.DenyFraction < 0) {
		return fmt.Errorf("%w: deny fraction must be >= 0, got %v", ErrConfig, c.DenyFraction)
	}
	return nil
}

// Threshold resolves the spike threshold for a route's metrics.
// ok is false when the spike gate does not apply.
func (c GateConfig) Threshold(m RouteMetrics) (thr float64, ok bool) {
	switch c.SpikeMode {
	case SpikeAbsolute:
		if c.SpikeThreshold == nil {
			return 0, false
		}
		return *c.SpikeThreshold, true
	case SpikeRelativeP95:
		return c.SpikeK * m.P95Step, true
	case SpikeRelativeMedian:
		return c.SpikeK * m.MedianStep, true
	default:
		return 0, false
	}
}

// GateDecision is the outcome of applying a Gate to one route.
type GateDecision struct {
	Denied               bool
	Reason               string
	PermissionViolations int
	SpikeViolations      int
	SpikeThreshold       float64
	HasSpikeThreshold    bool
}

// Gate applies the permission and spike gates under a deny policy.
type Gate struct {
	config GateConfig
}

// NewGate validates config and creates a gate from the normalized copy.
func NewGate(config GateConfig) (*Gate, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Gate{config: config}, nil
}

// Decide evaluates a route without modifying it.
func (g *Gate) Decide(route *Route) GateDecision {
	m := route.Metrics
	d := GateDecision{}

	if m.HasPermission {
		for _, s := range route.Trace.Samples {
			if s.A.Valid && s.A.Value < g.config.AMin {
				d.PermissionViolations++
			}
		}
	}

	d.SpikeThreshold, d.HasSpikeThreshold = g.config.Threshold(m)
	if d.HasSpikeThreshold {
		for _, st := range route.StepCosts {
			if st > d.SpikeThreshold {
				d.SpikeViolations++
			}
		}
	}

	var reasons []string
	switch g.config.DenyPolicy {
	case DenyFraction:
		limit := FormatParam(g.config.DenyFraction)
		if m.HasPermission {
			frac := float64(d.PermissionViolations) / float64(max(1, m.Rows))
			if frac > g.config.DenyFraction {
				reasons = append(reasons, fmt.Sprintf("a<a_min frac=%.6g>%s", frac, limit))
			}
		}
		if d.HasSpikeThreshold {
			frac := float64(d.SpikeViolations) / float64(max(1, len(route.StepCosts)))
			if frac > g.config.DenyFraction {
				reasons = append(reasons, fmt.Sprintf("step>thr frac=%.6g>%s", frac, limit))
			}
		}
	case DenyAny:
		if d.PermissionViolations > 0 {
			reasons = append(reasons, fmt.Sprintf("a<a_min (%d)", d.PermissionViolations))
		}
		if d.HasSpikeThreshold && d.SpikeViolations > 0 {
			reasons = append(reasons, fmt.Sprintf("step>thr (%d)", d.SpikeViolations))
		}
	}

	d.Denied = len(reasons) > 0
	d.Reason = strings.Join(reasons, "; ")
	return d
}

// Apply decides a route and records the decision on its metrics.
func (g *Gate) Apply(route *Route) GateDecision {
	d := g.Decide(route)
	route.Metrics.Denied = d.Denied
	route.Metrics.DenyReason = d.Reason
	route.Metrics.PermissionViolations = d.PermissionViolations
	route.Metrics.SpikeViolations = d.SpikeViolations
	route.Metrics.SpikeThreshold = d.SpikeThreshold
	route.Metrics.HasSpikeThreshold = d.HasSpikeThreshold
	return d
}

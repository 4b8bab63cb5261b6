package ssr

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// SkippedRoute records an input dropped under RunConfig.SkipInvalidRoutes.
type SkippedRoute struct {
	Path string
	Err  error
}

// RunResult holds every evaluated route of one run.
type RunResult struct {
	Config  RunConfig
	Routes  []*Route // input order
	Allowed []*Route // ranked
	Denied  []*Route // input order
	Skipped []SkippedRoute
}

// Run loads, evaluates, gates and ranks every input named by cfg.
// Configuration errors are returned before any input is read. A structural
// input error aborts the run unless cfg.SkipInvalidRoutes is set.
func Run(cfg RunConfig) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gate, err := NewGate(cfg.Gate)
	if err != nil {
		return nil, err
	}
	result := &RunResult{Config: cfg}
	for _, path := range cfg.Inputs {
		trace, err := LoadTrace(path, cfg.Epsilon)
		if err != nil {
			if cfg.SkipInvalidRoutes && errors.Is(err, ErrInput) {
				logrus.Warnf("Skipping route %s: %v", path, err)
				result.Skipped = append(result.Skipped, SkippedRoute{Path: path, Err: err})
				continue
			}
			return nil, err
		}

		route := Evaluate(trace)
		d := gate.Apply(route)
		logrus.Debugf("route=%s rows=%d L_struct=%g eta=%g denied=%v reason=%q",
			trace.Name, route.Metrics.Rows, route.Metrics.LStruct, route.Metrics.Eta, d.Denied, d.Reason)
		result.Routes = append(result.Routes, route)
	}

	result.Allowed, result.Denied = Rank(result.Routes, cfg.Rank)
	logrus.Infof("Evaluated %d routes: %d allowed, %d denied, %d skipped",
		len(result.Routes), len(result.Allowed), len(result.Denied), len(result.Skipped))
	return result, nil
}

package report

import (
	"fmt"
	"io"

	"github.com/structural-safety/ssr/ssr"
)

// PrintConsole writes the human-readable run report: configuration header,
// ranked allowed routes, and denied routes with reasons.
func PrintConsole(w io.Writer, result *ssr.RunResult) {
	cfg := result.Config
	g := cfg.Gate

	fmt.Fprintln(w, "SSR - Structural Safety Routing (deterministic, observation-only)")
	fmt.Fprintf(w, "Gate: a_min=%s | spike_mode=%s | deny_mode=%s | rank=%s\n",
		shortFloat(g.AMin), g.SpikeMode, g.DenyPolicy, cfg.Rank)
	switch g.SpikeMode {
	case ssr.SpikeAbsolute:
		if g.SpikeThreshold != nil {
			fmt.Fprintf(w, "Spike abs: step_spike=%s\n", shortFloat(*g.SpikeThreshold))
		}
	case ssr.SpikeRelativeP95, ssr.SpikeRelativeMedian:
		fmt.Fprintf(w, "Spike relative: k=%s\n", shortFloat(g.SpikeK))
	}
	if g.DenyPolicy == ssr.DenyFraction {
		fmt.Fprintf(w, "Deny fraction: deny_frac=%s\n", shortFloat(g.DenyFraction))
	}
	fmt.Fprintln(w)

	if len(result.Allowed) > 0 {
		fmt.Fprintln(w, "ALLOWED (ranked):")
		for i, r := range result.Allowed {
			m := r.Metrics
			fmt.Fprintf(w, "%02d  %s  L_struct=%.6g  eta=%.6g  p95_step=%.6g  max_step=%.6g  max_R=%.6g\n",
				i+1, m.Route, m.LStruct, m.Eta, m.P95Step, m.MaxStep, m.MaxR)
		}
	} else {
		fmt.Fprintln(w, "ALLOWED: none")
	}

	fmt.Fprintln(w)
	if len(result.Denied) > 0 {
		fmt.Fprintln(w, "DENIED:")
		for _, r := range result.Denied {
			m := r.Metrics
			aMin := "NA"
			if m.HasPermission {
				aMin = fmt.Sprintf("%.6g", m.MinPermission)
			}
			fmt.Fprintf(w, "- %s  reason=%s  a_min_seen=%s  L_struct=%.6g  eta=%.6g\n",
				m.Route, m.DenyReason, aMin, m.LStruct, m.Eta)
		}
	} else {
		fmt.Fprintln(w, "DENIED: none")
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "SKIPPED:")
		for _, s := range result.Skipped {
			fmt.Fprintf(w, "- %s  error=%v\n", s.Path, s.Err)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "WROTE %s\n", cfg.OutPath)
}

func shortFloat(x float64) string {
	return ssr.FormatParam(x)
}

// Package tracegen synthesizes deterministic route traces that exhibit named
// hazard patterns. The traces are fixtures for the ssr engine; nothing here
// influences how routes are scored.
package tracegen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Pattern names a hazard waveform.
type Pattern string

const (
	// Basic set.
	Corridor             Pattern = "corridor"
	PermissionCollapse   Pattern = "permission_collapse"
	SpikeHazard          Pattern = "spike_hazard"
	SpikeDenied          Pattern = "spike_denied"
	PermissionDeniedOnly Pattern = "permission_denied_only"

	// Mission set.
	FreeReturnCorridor      Pattern = "free_return_corridor"
	CommsBlackoutBand       Pattern = "comms_blackout_band"
	CommsBlackoutSmooth     Pattern = "comms_blackout_smooth"
	RadiationSpikeHazard    Pattern = "radiation_spike_hazard"
	MidcourseShockDenied    Pattern = "midcourse_shock_denied"
	MarginErosionDeniedOnly Pattern = "margin_erosion_denied_only"
)

// signalLimit bounds generated a and s away from ±1.
const signalLimit = 0.999999

// Columns is the header of a generated trace file.
var Columns = []string{
	"k", "x", "x_next", "r", "dx_raw", "dx", "dx_perm",
	"a", "s", "u", "v", "R", "Psi", "event",
}

// Row is one generated sample. Event is ROAM, DENY or SPIKE.
type Row struct {
	K      int
	X      float64
	XNext  float64
	R      float64
	DXRaw  float64
	DX     float64
	DXPerm float64
	A      float64
	S      float64
	U      float64
	V      float64
	Radius float64
	Psi    float64
	Event  string
}

// NamedRoute pairs a fixture file name with the pattern that fills it.
type NamedRoute struct {
	FileName string
	Pattern  Pattern
	N        int
}

// BasicSamples is the fixed length of every basic fixture route.
const BasicSamples = 60

// BasicSet returns the five basic fixture routes, BasicSamples each.
func BasicSet() []NamedRoute {
	return []NamedRoute{
		{"routeA_corridor.csv", Corridor, BasicSamples},
		{"routeB_permission_collapse.csv", PermissionCollapse, BasicSamples},
		{"routeC_spike_hazard.csv", SpikeHazard, BasicSamples},
		{"routeD_spike_denied.csv", SpikeDenied, BasicSamples},
		{"routeE_permission_denied_only.csv", PermissionDeniedOnly, BasicSamples},
	}
}

// MissionSet returns the mission fixture routes with n samples each,
// optionally including the smoothed blackout variant.
func MissionSet(n int, includeSmooth bool) []NamedRoute {
	routes := []NamedRoute{
		{"routeA_free_return_corridor.csv", FreeReturnCorridor, n},
		{"routeB_comms_blackout_band.csv", CommsBlackoutBand, n},
		{"routeC_radiation_spike_hazard.csv", RadiationSpikeHazard, n},
		{"routeD_midcourse_shock_denied.csv", MidcourseShockDenied, n},
		{"routeE_margin_erosion_denied_only.csv", MarginErosionDeniedOnly, n},
	}
	if includeSmooth {
		routes = append(routes, NamedRoute{"routeB2_comms_blackout_smooth.csv", CommsBlackoutSmooth, n})
	}
	return routes
}

func isMission(p Pattern) bool {
	switch p {
	case FreeReturnCorridor, CommsBlackoutBand, CommsBlackoutSmooth,
		RadiationSpikeHazard, MidcourseShockDenied, MarginErosionDeniedOnly:
		return true
	}
	return false
}

func clampSignal(x float64) float64 {
	return math.Max(-signalLimit, math.Min(signalLimit, x))
}

func smoothstep01(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3.0 - 2.0*t)
}

// Generate builds a trace of n samples for pattern p. aMinForEvent sets the
// permission floor the mission patterns label as DENY and push the blackout
// band below; the basic patterns label DENY at a < 0.
func Generate(p Pattern, n int, aMinForEvent float64) ([]Row, error) {
	mission := isMission(p)
	if mission {
		n = max(2, n)
	} else if n < 1 {
		return nil, fmt.Errorf("trace length must be >= 1, got %d", n)
	}

	rows := make([]Row, 0, n)
	vPrev, mPrev := 0.0, 0.0
	for k := 0; k < n; k++ {
		a, s, err := signals(p, k, n, aMinForEvent)
		if err != nil {
			return nil, err
		}
		a = clampSignal(a)
		s = clampSignal(s)
		u := math.Atanh(a)
		v := math.Atanh(s)
		radius := math.Sqrt(u*u + v*v)

		m := float64(k)
		dx := m - mPrev

		event := "ROAM"
		if mission {
			if a < aMinForEvent {
				event = "DENY"
			} else if math.Abs(v-vPrev) > 1.0 {
				event = "SPIKE"
			}
		} else {
			if a < 0 {
				event = "DENY"
			}
			if math.Abs(v-vPrev) > 1.0 {
				event = "SPIKE"
			}
		}

		rows = append(rows, Row{
			K: k, X: float64(k), XNext: float64(k + 1),
			DXRaw: dx, DX: dx, DXPerm: dx,
			A: a, S: s, U: u, V: v,
			Radius: radius, Psi: radius * radius,
			Event: event,
		})
		vPrev, mPrev = v, m
	}
	return rows, nil
}

// signals returns the raw (a, s) pair of sample k before clamping.
func signals(p Pattern, k, n int, aMinForEvent float64) (a, s float64, err error) {
	denom := float64(max(1, n-1))
	phase := 2.0 * math.Pi * float64(k) / denom
	bandLo, bandHi := n/3, (2*n)/3
	ramp := max(2, n/20)
	aLow := math.Min(-0.35, aMinForEvent-0.05)
	baseA := 0.62 + 0.06*math.Cos(phase)
	baseS := 0.16 + 0.05*math.Sin(phase)

	// raisedCosine rises 0 -> 1 -> 0 across [bandLo, bandHi].
	raisedCosine := func() float64 {
		t := float64(k-bandLo) / float64(max(1, bandHi-bandLo))
		return 0.5 - 0.5*math.Cos(2*math.Pi*t)
	}
	inBand := bandLo <= k && k <= bandHi

	switch p {
	case Corridor:
		return 0.65 + 0.10*math.Cos(phase), 0.15 + 0.05*math.Sin(phase), nil

	case PermissionCollapse:
		a = 0.55 + 0.05*math.Cos(phase)
		if inBand {
			a -= 0.90 * raisedCosine()
		}
		return a, 0.20 + 0.05*math.Sin(phase), nil

	case SpikeHazard:
		a = 0.55 + 0.06*math.Cos(phase)
		s = 0.18 + 0.06*math.Sin(phase)
		if k == n/4 || k == n/2 || k == (3*n)/4 {
			s = 0.85
		}
		return a, s, nil

	case SpikeDenied, MidcourseShockDenied:
		a = 0.60 + 0.04*math.Cos(phase)
		s = 0.15 + 0.04*math.Sin(phase)
		if k == n/2 {
			s = 0.98
		}
		return a, s, nil

	case PermissionDeniedOnly:
		a = 0.60 + 0.02*math.Cos(phase)
		if inBand {
			a -= 1.00 * raisedCosine()
		}
		return a, 0.12, nil

	case FreeReturnCorridor:
		return baseA + 0.03*math.Cos(2*phase), baseS, nil

	case CommsBlackoutBand:
		a = baseA
		if inBand {
			a = aLow
		}
		return a, baseS, nil

	case CommsBlackoutSmooth:
		a = baseA
		switch {
		case k < bandLo-ramp || k > bandHi+ramp:
		case inBand:
			a = aLow
		case k < bandLo:
			w := smoothstep01(float64(k-(bandLo-ramp)) / float64(ramp))
			a = (1.0-w)*baseA + w*aLow
		default:
			w := smoothstep01(float64(k-bandHi) / float64(ramp))
			a = (1.0-w)*aLow + w*baseA
		}
		return a, baseS, nil

	case RadiationSpikeHazard:
		a = 0.56 + 0.05*math.Cos(phase)
		s = baseS
		if k == n/5 || k == 2*n/5 || k == 3*n/5 {
			s = 0.80
		}
		return a, s, nil

	case MarginErosionDeniedOnly:
		erosion := 0.75 * (float64(k) / denom)
		return 0.60 - erosion + 0.03*math.Cos(phase), 0.16 + 0.02*math.Sin(phase), nil
	}
	return 0, 0, fmt.Errorf("unknown pattern: %s", p)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// WriteCSV writes rows with the Columns header.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.K),
			formatFloat(r.X), formatFloat(r.XNext), formatFloat(r.R),
			formatFloat(r.DXRaw), formatFloat(r.DX), formatFloat(r.DXPerm),
			formatFloat(r.A), formatFloat(r.S),
			formatFloat(r.U), formatFloat(r.V),
			formatFloat(r.Radius), formatFloat(r.Psi),
			r.Event,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r.K, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile generates route and writes it to path.
func WriteFile(path string, route NamedRoute, aMinForEvent float64) error {
	rows, err := Generate(route.Pattern, route.N, aMinForEvent)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

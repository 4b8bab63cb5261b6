package report

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structural-safety/ssr/ssr"
)

func sampleResult() *ssr.RunResult {
	thr := 2.0
	cfg := ssr.DefaultRunConfig()
	cfg.Inputs = []string{"a.csv", "b.csv"}
	cfg.Gate.SpikeMode = ssr.SpikeAbsolute
	cfg.Gate.SpikeThreshold = &thr
	cfg.OutPath = "out.csv"

	allowed := &ssr.Route{Metrics: ssr.RouteMetrics{
		Route: "a.csv", Rows: 3, LClassical: 2, LStruct: 2.5, Eta: 1.25,
		MinPermission: 0.3, HasPermission: true,
		MedianStep: 1, P95Step: 1.1, MaxStep: 1.2, MaxR: 0.5, MaxPsi: 0.125,
		SpikeThreshold: 2, HasSpikeThreshold: true,
	}}
	denied := &ssr.Route{Metrics: ssr.RouteMetrics{
		Route: "b.csv", Rows: 4, LClassical: 3, LStruct: 1.0 / 3.0, Eta: 0.1,
		MinPermission: math.NaN(),
		Denied:        true, DenyReason: "step>thr (1)", SpikeViolations: 1,
		SpikeThreshold: 2, HasSpikeThreshold: true,
	}}
	return &ssr.RunResult{
		Config:  cfg,
		Routes:  []*ssr.Route{allowed, denied},
		Allowed: []*ssr.Route{allowed},
		Denied:  []*ssr.Route{denied},
	}
}

func TestWriteSummary_FixedColumnsAndFormatting(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "route,rows,denied,deny_reason,L_classical,L_struct,eta,a_min_seen,deny_count_a,"+
		"median_step,p95_step,max_step,max_R,max_Psi,spike_mode,spike_thr", lines[0])
	assert.Equal(t, "a.csv,3,0,,2,2.5,1.25,0.3,0,1,1.1,1.2,0.5,0.125,abs,2", lines[1])
	// NaN permission renders empty; 1/3 keeps 15 significant digits
	assert.Equal(t, "b.csv,4,1,step>thr (1),3,0.333333333333333,0.1,,0,0,0,0,0,0,abs,2", lines[2])
}

func TestWriteSummary_NoSpikeGate_EmptyThreshold(t *testing.T) {
	result := sampleResult()
	result.Config.Gate.SpikeMode = ssr.SpikeNone
	for _, r := range result.Routes {
		r.Metrics.HasSpikeThreshold = false
	}
	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, result))

	rows, err := ReadSummary(&buf)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, "none", r.Fields["spike_mode"])
		assert.Equal(t, "", r.Fields["spike_thr"])
	}
}

func TestSummaryFile_ReadsBackWhatWasWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	require.NoError(t, WriteSummaryFile(path, sampleResult()))

	rows, err := ReadSummaryFile(path)

	require.NoError(t, err)
	got := make([]SummaryRow, len(rows))
	for i, r := range rows {
		got[i] = SummaryRow{Route: r.Route, Rows: r.Rows, Denied: r.Denied, DenyReason: r.DenyReason}
	}
	want := []SummaryRow{
		{Route: "a.csv", Rows: 3, Denied: false},
		{Route: "b.csv", Rows: 4, Denied: true, DenyReason: "step>thr (1)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "0.3", rows[0].Fields["a_min_seen"])
}

func TestReadSummary_Empty_Errors(t *testing.T) {
	_, err := ReadSummary(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadSummary(strings.NewReader(strings.Join(SummaryColumns, ",") + "\n"))
	assert.Error(t, err)
}

// Package report renders a run's results as the durable CSV summary and as
// the console report, and reads the summary back for assertions.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/structural-safety/ssr/ssr"
)

// SummaryColumns is the fixed column order of the summary CSV.
var SummaryColumns = []string{
	"route", "rows",
	"denied", "deny_reason",
	"L_classical", "L_struct", "eta",
	"a_min_seen", "deny_count_a",
	"median_step", "p95_step", "max_step",
	"max_R", "max_Psi",
	"spike_mode", "spike_thr",
}

// SummaryRow is one parsed row of the summary CSV. Numeric columns are kept
// as their rendered text so assertions compare exactly what was written.
type SummaryRow struct {
	Route      string
	Rows       int
	Denied     bool
	DenyReason string
	Fields     map[string]string
}

// formatFloat renders with 15 significant digits so values round-trip.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 15, 64)
}

func summaryRecord(m ssr.RouteMetrics, mode ssr.SpikeMode) []string {
	aMin := ""
	if m.HasPermission {
		aMin = formatFloat(m.MinPermission)
	}
	thr := ""
	if m.HasSpikeThreshold {
		thr = formatFloat(m.SpikeThreshold)
	}
	denied := "0"
	if m.Denied {
		denied = "1"
	}
	return []string{
		m.Route,
		strconv.Itoa(m.Rows),
		denied,
		m.DenyReason,
		formatFloat(m.LClassical),
		formatFloat(m.LStruct),
		formatFloat(m.Eta),
		aMin,
		strconv.Itoa(m.PermissionViolations),
		formatFloat(m.MedianStep),
		formatFloat(m.P95Step),
		formatFloat(m.MaxStep),
		formatFloat(m.MaxR),
		formatFloat(m.MaxPsi),
		string(mode),
		thr,
	}
}

// WriteSummary writes one row per route in input order.
func WriteSummary(w io.Writer, result *ssr.RunResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SummaryColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range result.Routes {
		if err := writer.Write(summaryRecord(r.Metrics, result.Config.Gate.SpikeMode)); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.Metrics.Route, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSummaryFile creates (or truncates) path and writes the summary to it.
func WriteSummaryFile(path string, result *ssr.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	if err := WriteSummary(file, result); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadSummary parses a summary CSV. Columns are matched by header name.
func ReadSummary(r io.Reader) ([]SummaryRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty summary CSV")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows []SummaryRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				fields[strings.TrimSpace(h)] = record[i]
			}
		}
		n, _ := strconv.Atoi(strings.TrimSpace(fields["rows"]))
		rows = append(rows, SummaryRow{
			Route:      strings.TrimSpace(fields["route"]),
			Rows:       n,
			Denied:     strings.TrimSpace(fields["denied"]) == "1",
			DenyReason: fields["deny_reason"],
			Fields:     fields,
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty summary CSV")
	}
	return rows, nil
}

// ReadSummaryFile opens path and parses it with ReadSummary.
func ReadSummaryFile(path string) ([]SummaryRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening summary: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadSummary(file)
}

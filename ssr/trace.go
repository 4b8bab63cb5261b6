package ssr

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ColumnSource identifies which column pair supplied a route's structural coordinates.
type ColumnSource string

const (
	// SourceUV reads structural coordinates directly from the u and v columns.
	SourceUV ColumnSource = "uv"
	// SourceAS derives u and v from the bounded a and s signals via AtanhSafe.
	SourceAS ColumnSource = "as"
)

// Permission is the raw permission margin of one sample. Valid is false when
// the route has no a column or the cell is NaN. An empty or unparseable cell
// is invalid in (u,v) mode and a reading of 0 in (a,s) mode.
type Permission struct {
	Value float64
	Valid bool
}

// Sample is one canonical row of a route trace.
type Sample struct {
	DX float64
	U  float64
	V  float64
	A  Permission
}

// RouteTrace is the ordered sample sequence of one named route.
type RouteTrace struct {
	Name    string
	Source  ColumnSource
	Samples []Sample
}

// HasPermission reports whether any sample carries a valid permission value.
func (t *RouteTrace) HasPermission() bool {
	for _, s := range t.Samples {
		if s.A.Valid {
			return true
		}
	}
	return false
}

// LoadTrace opens path and reads it as a route trace named after the file.
func LoadTrace(path string, eps float64) (*RouteTrace, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: not found: %s", ErrInput, path)
		}
		return nil, fmt.Errorf("%w: opening %s: %v", ErrInput, path, err)
	}
	defer func() { _ = file.Close() }()

	return ReadTrace(filepath.Base(path), file, eps)
}

// ReadTrace parses CSV trace data with a header row. The header must contain
// dx and either both of u,v or both of a,s; other columns are ignored. When
// both pairs are present u,v wins and a is kept for permission tracking only.
func ReadTrace(name string, r io.Reader, eps float64) (*RouteTrace, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty CSV: %s", ErrInput, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header of %s: %v", ErrInput, name, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	has := func(c string) bool { _, ok := cols[c]; return ok }

	if !has("dx") {
		return nil, fmt.Errorf("%w: missing required column 'dx' in %s", ErrInput, name)
	}
	var source ColumnSource
	switch {
	case has("u") && has("v"):
		source = SourceUV
	case has("a") && has("s"):
		source = SourceAS
	default:
		return nil, fmt.Errorf("%w: %s: need either ('u','v') OR ('a','s') columns, along with 'dx'", ErrInput, name)
	}

	trace := &RouteTrace{Name: name, Source: source}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV row %d of %s: %v", ErrInput, len(trace.Samples)+1, name, err)
		}
		trace.Samples = append(trace.Samples, parseSample(row, cols, source, eps))
	}
	if len(trace.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty CSV: %s", ErrInput, name)
	}
	return trace, nil
}

// cellState separates the three outcomes of coercing one cell.
type cellState int

const (
	cellMissing cellState = iota // absent column, short row, empty, unparseable or infinite
	cellNaN                      // a literal not-a-number
	cellOK
)

func parseCell(row []string, cols map[string]int, c string) (float64, cellState) {
	i, ok := cols[c]
	if !ok || i >= len(row) {
		return 0, cellMissing
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	switch {
	case err != nil || math.IsInf(v, 0):
		return 0, cellMissing
	case math.IsNaN(v):
		return 0, cellNaN
	}
	return v, cellOK
}

// parseSample coerces one row. dx/u/v/s default to 0 on any bad cell. In
// (u,v) mode a bad a is not a permission reading; in (a,s) mode a bad a is
// a reading of 0, except a literal NaN which carries no reading.
func parseSample(row []string, cols map[string]int, source ColumnSource, eps float64) Sample {
	value := func(c string) float64 {
		v, _ := parseCell(row, cols, c)
		return v
	}

	s := Sample{DX: value("dx")}
	a, aState := parseCell(row, cols, "a")

	if source == SourceUV {
		s.U = value("u")
		s.V = value("v")
		s.A = Permission{Value: a, Valid: aState == cellOK}
		return s
	}
	s.A = Permission{Value: a, Valid: aState != cellNaN}
	s.U = AtanhSafe(a, eps)
	s.V = AtanhSafe(value("s"), eps)
	return s
}

package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expectation states what the summary must say about one route.
// A nil Denied leaves the flag unchecked.
type Expectation struct {
	Route          string   `yaml:"route"`
	Denied         *bool    `yaml:"denied,omitempty"`
	ReasonContains []string `yaml:"reason_contains,omitempty"`
	ReasonExcludes []string `yaml:"reason_excludes,omitempty"`
}

// ExpectationFile is the YAML document read by the check command.
type ExpectationFile struct {
	Expectations []Expectation `yaml:"expectations"`
}

// LoadExpectations reads an expectations YAML file with strict field checking.
func LoadExpectations(path string) ([]Expectation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading expectations: %w", err)
	}
	var f ExpectationFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing expectations: %w", err)
	}
	if len(f.Expectations) == 0 {
		return nil, fmt.Errorf("no expectations in %s", path)
	}
	return f.Expectations, nil
}

// Check returns an error describing the first expectation the rows violate.
func Check(rows []SummaryRow, expectations []Expectation) error {
	byRoute := make(map[string]SummaryRow, len(rows))
	for _, r := range rows {
		if _, dup := byRoute[r.Route]; !dup {
			byRoute[r.Route] = r
		}
	}

	for _, e := range expectations {
		row, ok := byRoute[e.Route]
		if !ok {
			return fmt.Errorf("missing route in summary: %s", e.Route)
		}
		if e.Denied != nil && row.Denied != *e.Denied {
			return fmt.Errorf("FAIL: %s denied: got=%s expected=%s", e.Route, deniedFlag(row.Denied), deniedFlag(*e.Denied))
		}
		for _, needle := range e.ReasonContains {
			if !strings.Contains(row.DenyReason, needle) {
				return fmt.Errorf("FAIL: %s deny_reason: missing '%s' in '%s'", e.Route, needle, row.DenyReason)
			}
		}
		for _, needle := range e.ReasonExcludes {
			if strings.Contains(row.DenyReason, needle) {
				return fmt.Errorf("FAIL: %s deny_reason: must not contain '%s' in '%s'", e.Route, needle, row.DenyReason)
			}
		}
	}
	return nil
}

func deniedFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

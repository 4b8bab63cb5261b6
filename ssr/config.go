package ssr

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the full parameter bundle consumed by Run.
type RunConfig struct {
	Inputs  []string   `yaml:"inputs"`
	Epsilon float64    `yaml:"eps"`
	Gate    GateConfig `yaml:"gate"`
	Rank    RankMetric `yaml:"rank"`
	OutPath string     `yaml:"out"`

	// SkipInvalidRoutes downgrades structural input errors from run-fatal to
	// a per-route skip. Configuration errors remain fatal.
	SkipInvalidRoutes bool `yaml:"skip_invalid_routes"`
}

// DefaultRunConfig returns a RunConfig populated with the documented defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Epsilon: DefaultEpsilon,
		Gate:    DefaultGateConfig(),
		Rank:    RankLStruct,
		OutPath: "ssr_routing_summary.csv",
	}
}

// LoadRunConfig reads a YAML run configuration on top of DefaultRunConfig.
// Unknown keys are rejected so typos surface as errors.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config %s: %v", ErrConfig, path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config %s: %v", ErrConfig, path, err)
	}
	return cfg, nil
}

// Validate checks every run-level parameter. It normalizes aliases in place.
func (c *RunConfig) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("%w: at least one input trace is required", ErrConfig)
	}
	if math.IsNaN(c.Epsilon) || c.Epsilon <= 0 || c.Epsilon >= 1 {
		return fmt.Errorf("%w: eps must be in (0, 1), got %v", ErrConfig, c.Epsilon)
	}
	if c.Rank == "" {
		c.Rank = RankLStruct
	}
	if !IsValidRankMetric(string(c.Rank)) {
		return fmt.Errorf("%w: unknown rank metric %q; valid metrics: [L_struct, eta, p95_step, max_step]", ErrConfig, c.Rank)
	}
	if c.OutPath == "" {
		return fmt.Errorf("%w: output path is required", ErrConfig)
	}
	return c.Gate.Validate()
}

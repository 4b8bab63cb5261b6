package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/structural-safety/ssr/ssr"
	"github.com/structural-safety/ssr/ssr/report"
)

var (
	// CLI flags for the route command
	inputPaths  []string // Route trace CSVs, evaluated in order
	configPath  string   // Optional YAML run config; explicit flags override it
	logLevel    string   // Log verbosity level
	aMin        float64  // Permission floor
	epsAtanh    float64  // atanh clamp epsilon
	spikeMode   string   // none, abs, rel_p95, rel_median
	stepSpike   float64  // Absolute spike threshold (abs mode)
	stepSpikeK  float64  // Spike multiplier (relative modes)
	denyMode    string   // any or fraction
	denyFrac    float64  // Violation fraction threshold (fraction mode)
	rankMetric  string   // Ranking metric among allowed routes
	outPath     string   // Summary CSV path
	skipInvalid bool     // Skip malformed routes instead of aborting
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ssr",
	Short: "Structural safety routing: gate and rank route traces",
}

// routeCmd evaluates, gates and ranks the input traces
var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Evaluate route traces against safety gates and rank the allowed ones",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := resolveRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		result, err := ssr.Run(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := report.WriteSummaryFile(result.Config.OutPath, result); err != nil {
			logrus.Fatalf("Failed to write summary: %v", err)
		}
		report.PrintConsole(os.Stdout, result)
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveRunConfig layers explicitly set flags over the YAML config (or the
// defaults when no config is given). Unset flags never overwrite file values.
func resolveRunConfig(cmd *cobra.Command) (ssr.RunConfig, error) {
	cfg := ssr.DefaultRunConfig()
	if configPath != "" {
		loaded, err := ssr.LoadRunConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		logrus.Infof("Loaded run config from %s", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("in") {
		cfg.Inputs = inputPaths
	}
	if flags.Changed("a-min") {
		cfg.Gate.AMin = aMin
	}
	if flags.Changed("eps") {
		cfg.Epsilon = epsAtanh
	}
	if flags.Changed("step-spike-mode") {
		cfg.Gate.SpikeMode = ssr.SpikeMode(spikeMode)
	}
	if flags.Changed("step-spike") {
		thr := stepSpike
		cfg.Gate.SpikeThreshold = &thr
	}
	if flags.Changed("step-spike-k") {
		cfg.Gate.SpikeK = stepSpikeK
	}
	if flags.Changed("deny-mode") {
		cfg.Gate.DenyPolicy = ssr.DenyPolicy(denyMode)
	}
	if flags.Changed("deny-frac") {
		cfg.Gate.DenyFraction = denyFrac
	}
	if flags.Changed("rank") {
		cfg.Rank = ssr.RankMetric(rankMetric)
	}
	if flags.Changed("out") {
		cfg.OutPath = outPath
	}
	if flags.Changed("skip-invalid") {
		cfg.SkipInvalidRoutes = skipInvalid
	}
	return cfg, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := ssr.DefaultRunConfig()

	routeCmd.Flags().StringSliceVar(&inputPaths, "in", nil, "One or more route trace CSVs (comma-separated or repeated)")
	routeCmd.Flags().StringVar(&configPath, "config", "", "YAML run config; explicit flags override its values")
	routeCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Gates
	routeCmd.Flags().Float64Var(&aMin, "a-min", defaults.Gate.AMin, "Permission gate: deny if a < a-min (when 'a' is present)")
	routeCmd.Flags().Float64Var(&epsAtanh, "eps", defaults.Epsilon, "atanh clamp epsilon (when computing u,v from a,s)")
	routeCmd.Flags().StringVar(&spikeMode, "step-spike-mode", string(defaults.Gate.SpikeMode), "Spike gate mode (none, abs, rel_p95, rel_median)")
	routeCmd.Flags().Float64Var(&stepSpike, "step-spike", 0, "(abs mode) deny if any step > step-spike")
	routeCmd.Flags().Float64Var(&stepSpikeK, "step-spike-k", defaults.Gate.SpikeK, "(relative modes) threshold multiplier")
	routeCmd.Flags().StringVar(&denyMode, "deny-mode", string(defaults.Gate.DenyPolicy), "Deny on any violation, or by fraction (any, fraction)")
	routeCmd.Flags().Float64Var(&denyFrac, "deny-frac", defaults.Gate.DenyFraction, "(fraction mode) deny if violations/rows > deny-frac")

	// Ranking and output
	routeCmd.Flags().StringVar(&rankMetric, "rank", string(defaults.Rank), "Ranking metric among allowed routes (L_struct, eta, p95_step, max_step)")
	routeCmd.Flags().StringVar(&outPath, "out", defaults.OutPath, "Output summary CSV")
	routeCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip routes with structural input errors instead of aborting the run")

	rootCmd.AddCommand(routeCmd)
}

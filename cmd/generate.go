package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/structural-safety/ssr/ssr/tracegen"
)

var (
	genSet           string
	genN             int
	genOutDir        string
	genIncludeSmooth bool
	genAMinForEvent  float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write deterministic fixture traces with named hazard patterns",
	Long:  "Write the basic or mission fixture route set as CSV traces into --out-dir. Traces carry both (a,s) and (u,v) columns.",
	Run: func(cmd *cobra.Command, args []string) {
		routes, err := fixtureRoutes(genSet, genN, cmd.Flags().Changed("n"), genIncludeSmooth)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if err := os.MkdirAll(genOutDir, 0755); err != nil {
			logrus.Fatalf("Failed to create %s: %v", genOutDir, err)
		}
		for _, r := range routes {
			if err := tracegen.WriteFile(filepath.Join(genOutDir, r.FileName), r, genAMinForEvent); err != nil {
				logrus.Fatalf("Failed to write %s: %v", r.FileName, err)
			}
			fmt.Println("WROTE", r.FileName)
		}
	},
}

// fixtureRoutes resolves the named fixture set. The basic set has a fixed
// length, so an explicit --n is rejected there rather than ignored.
func fixtureRoutes(set string, n int, nChanged, includeSmooth bool) ([]tracegen.NamedRoute, error) {
	switch set {
	case "basic":
		if nChanged {
			return nil, fmt.Errorf("--n applies to the mission set only; basic routes are fixed at %d samples", tracegen.BasicSamples)
		}
		return tracegen.BasicSet(), nil
	case "mission":
		return tracegen.MissionSet(n, includeSmooth), nil
	default:
		return nil, fmt.Errorf("unknown fixture set %q; valid sets: [basic, mission]", set)
	}
}

func init() {
	generateCmd.Flags().StringVar(&genSet, "set", "mission", "Fixture set (basic, mission)")
	generateCmd.Flags().IntVar(&genN, "n", 80, "Samples per route (mission set only; basic routes are fixed at "+strconv.Itoa(tracegen.BasicSamples)+")")
	generateCmd.Flags().StringVar(&genOutDir, "out-dir", "traces_mission", "Output directory")
	generateCmd.Flags().BoolVar(&genIncludeSmooth, "include-smooth-blackout", false, "Also write the smoothed blackout route (mission set)")
	generateCmd.Flags().Float64Var(&genAMinForEvent, "a-min-for-event", 0.05, "Permission floor used to label DENY events and place the blackout band")

	rootCmd.AddCommand(generateCmd)
}

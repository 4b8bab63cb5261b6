package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/structural-safety/ssr/ssr/report"
)

var (
	checkSummaryPath string
	checkExpectPath  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Assert a summary CSV against expected per-route outcomes",
	Long:  "Read a summary CSV written by 'ssr route' and a YAML expectations file; exit non-zero on the first mismatch.",
	Run: func(cmd *cobra.Command, args []string) {
		rows, err := report.ReadSummaryFile(checkSummaryPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		expectations, err := report.LoadExpectations(checkExpectPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := report.Check(rows, expectations); err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Printf("SSR CHECKS PASSED (%d expectations)\n", len(expectations))
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkSummaryPath, "summary", "ssr_routing_summary.csv", "Summary CSV to check")
	checkCmd.Flags().StringVar(&checkExpectPath, "expect", "", "YAML expectations file")
	_ = checkCmd.MarkFlagRequired("expect")

	rootCmd.AddCommand(checkCmd)
}

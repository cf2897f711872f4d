package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/insights"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show hours per activity and insights for the last week or month",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPeriod, "period", "week", "Period: week (7 days) or month (30 days)")
}

func runStats(cmd *cobra.Command, args []string) error {
	p, err := insights.ParsePeriod(statsPeriod)
	if err != nil {
		return err
	}

	a, err := openReadyApp()
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	r := renderer()
	r.Stats(out, fmt.Sprintf("Last %d days", int(p)), a.tr.Period(p))
	fmt.Fprintln(out)
	r.Insights(out, a.tr.Insights(p))
	return nil
}

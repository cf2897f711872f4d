package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/view"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent days with logged hours",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", view.DefaultHistoryDays, "Number of days to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openReadyApp()
	if err != nil {
		return err
	}
	defer a.close()

	renderer().History(cmd.OutOrStdout(), a.tr, a.tr.DateKeys(), historyDays)
	return nil
}

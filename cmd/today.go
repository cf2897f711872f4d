package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/timecalc"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's hour-by-hour timeline",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := openReadyApp()
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	key := a.tr.Today()
	renderer().Timeline(out, a.tr.Settings(), key, a.tr.DayLog(key))

	if h, err := a.tr.HourToLog(); err == nil {
		if _, logged := a.tr.Entry(key, h); !logged {
			fmt.Fprintf(out, "\nNext: hourlog log <activity>  (logs %s)\n", timecalc.FormatHourRange(h))
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
)

var (
	logHour int
	logDate string
	logNote string
)

var logCmd = &cobra.Command{
	Use:   "log <activity>",
	Short: "Log how you spent an hour (work, rest, doomscroll, other)",
	Long: `Log how you spent an hour. Without --hour the hour that just ended is
logged, or the current hour at the very start of the work window.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: activityNames(),
	RunE:      runLog,
}

func init() {
	logCmd.Flags().IntVar(&logHour, "hour", 0, "Hour slot to log (0-23); defaults to the last completed hour")
	logCmd.Flags().StringVar(&logDate, "date", "", "Day to log (YYYY-MM-DD); defaults to today")
	logCmd.Flags().StringVar(&logNote, "note", "", "Optional short note")
}

func activityNames() []string {
	names := make([]string, len(model.Activities))
	for i, a := range model.Activities {
		names[i] = string(a)
	}
	return names
}

func runLog(cmd *cobra.Command, args []string) error {
	activity, err := model.ParseActivity(strings.ToLower(args[0]))
	if err != nil {
		return fmt.Errorf("%w (choose one of: %s)", err, strings.Join(activityNames(), ", "))
	}

	a, err := openReadyApp()
	if err != nil {
		return err
	}
	defer a.close()

	key := a.tr.Today()
	if logDate != "" {
		if key, err = timecalc.ParseDateKey(logDate); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	hour := model.Hour(logHour)
	if !cmd.Flags().Changed("hour") {
		if hour, err = a.tr.HourToLog(); err != nil {
			return err
		}
	}

	_, replaced := a.tr.Entry(key, hour)
	entry, err := a.tr.Log(key, hour, activity, logNote)
	if err != nil {
		exitOnWriteError(a, err)
		return err
	}

	verb := "Logged"
	if replaced {
		verb = "Updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s %s for %s, %s\n", verb,
		entry.Activity.Emoji(), entry.Activity.Label(),
		timecalc.FormatDateDisplay(key), timecalc.FormatHourRange(hour))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
)

var (
	settingsStart  string
	settingsEnd    string
	settingsNotify bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the work window and reminder preference",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&settingsStart, "start", "", "New start of the work window (HH:MM)")
	settingsCmd.Flags().StringVar(&settingsEnd, "end", "", "New end of the work window (HH:MM)")
	settingsCmd.Flags().BoolVar(&settingsNotify, "notify", false, "Enable or disable hourly reminders (--notify=false)")
}

func runSettings(cmd *cobra.Command, args []string) error {
	a, err := openReadyApp()
	if err != nil {
		return err
	}
	defer a.close()

	s := a.tr.Settings()
	flags := cmd.Flags()
	if flags.Changed("start") || flags.Changed("end") || flags.Changed("notify") {
		next, err := applySettingsFlags(s, flags.Changed("start"), flags.Changed("end"), flags.Changed("notify"))
		if err != nil {
			return err
		}
		if err := a.tr.UpdateSettings(next.StartHour, next.EndHour, next.NotificationsEnabled); err != nil {
			exitOnWriteError(a, err)
			return err
		}
		s = a.tr.Settings()
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Settings saved")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Work window: %s - %s (%d hours)\n",
		timecalc.FormatClock(s.StartHour), timecalc.FormatClock(s.EndHour), int(s.EndHour-s.StartHour))
	fmt.Fprintf(out, "Reminders:   %s\n", onOff(s.NotificationsEnabled))
	return nil
}

// applySettingsFlags overlays the changed flags on s.
func applySettingsFlags(s model.Settings, start, end, notify bool) (model.Settings, error) {
	var err error
	if start {
		if s.StartHour, err = timecalc.ParseClock(settingsStart); err != nil {
			return s, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if end {
		if s.EndHour, err = timecalc.ParseClock(settingsEnd); err != nil {
			return s, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if notify {
		s.NotificationsEnabled = settingsNotify
	}
	return s, nil
}

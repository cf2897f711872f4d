package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/timecalc"
)

var (
	setupStart  string
	setupEnd    string
	setupNotify bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set your work window and reminder preference",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupStart, "start", "09:00", "Start of the work window (HH:MM, whole hours)")
	setupCmd.Flags().StringVar(&setupEnd, "end", "18:00", "End of the work window (HH:MM, whole hours)")
	setupCmd.Flags().BoolVar(&setupNotify, "notify", false, "Enable hourly reminders")
}

func runSetup(cmd *cobra.Command, args []string) error {
	start, err := timecalc.ParseClock(setupStart)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := timecalc.ParseClock(setupEnd)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	a := openApp()
	defer a.close()

	if err := a.tr.CompleteSetup(start, end, setupNotify); err != nil {
		exitOnWriteError(a, err)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Work window set: %s - %s\n", timecalc.FormatClock(start), timecalc.FormatClock(end))
	fmt.Fprintf(out, "  Reminders: %s\n", onOff(setupNotify))
	fmt.Fprintln(out, "  Log your first hour with: hourlog log <work|rest|doomscroll|other>")
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

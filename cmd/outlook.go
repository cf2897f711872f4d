package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/msgraph"
	"github.com/Tiliavir/hourlog/internal/timecalc"
)

var (
	outlookSyncFrom      string
	outlookSyncTo        string
	outlookSyncDate      string
	outlookSyncDryRun    bool
	outlookSyncOverwrite bool
	outlookSyncTZ        string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Log hours spent in Outlook meetings as work",
	Long: `Fetch Outlook calendar events and log every work-window hour they cover
as work, with the meeting subject as note. Hours you already logged are kept
unless --overwrite is given.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncOverwrite, "overwrite", false, "Replace hours that are already logged")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (overrides config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the --date / --from / --to flags to a local time range.
func syncRange(now time.Time, date, fromFlag, toFlag string) (time.Time, time.Time, error) {
	switch {
	case date != "":
		d, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", date, err)
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case fromFlag != "" || toFlag != "":
		if fromFlag == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		from, err := time.ParseInLocation("2006-01-02", fromFlag, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", fromFlag, err)
		}
		to := now
		if toFlag != "" {
			if to, err = time.ParseInLocation("2006-01-02", toFlag, time.Local); err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", toFlag, err)
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toFlag, fromFlag)
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil
	}

	// Default: today.
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(time.Now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		return err
	}

	a, err := openReadyApp()
	if err != nil {
		return err
	}
	defer a.close()

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = a.cfg.Outlook.Timezone
	}

	out := cmd.OutOrStdout()
	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)

	ctx := context.Background()
	store := msgraph.NewTokenStore(a.base)

	tok, oauthCfg, err := msgraph.Authenticate(ctx, store, a.cfg.Outlook.TenantID, a.cfg.Outlook.ClientID, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		a.close()
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, tok, oauthCfg, store)

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		a.close()
		os.Exit(1)
	}

	result := msgraph.SyncEvents(a.tr, events, msgraph.SyncOptions{
		From:      from,
		To:        to,
		Timezone:  timezone,
		DryRun:    outlookSyncDryRun,
		Overwrite: outlookSyncOverwrite,
		Out:       out,
	})

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	fmt.Fprintf(out, "  %d skipped (already logged)\n", result.Skipped)
	fmt.Fprintf(out, "  %d outside the work window\n", result.Outside)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		a.close()
		os.Exit(2)
	}
	return nil
}

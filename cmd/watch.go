package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/config"
	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/notify"
	"github.com/Tiliavir/hourlog/internal/reminder"
	"github.com/Tiliavir/hourlog/internal/storage"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/tracker"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run in the foreground and remind you to log each hour",
	Long: `Run in the foreground and remind you, shortly after each hour of the
work window ends, to log it. Reminders are shown on the terminal and as a
desktop notification. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

// diskSource re-reads stored data on every check, so hours logged from other
// hourlog processes are seen. The storage is not held open between checks and
// is opened read-only. A badger store is locked while another hourlog process
// has it open; such checks fall back to the last known state.
type diskSource struct {
	base   string
	cfg    config.Config
	logger *log.Logger

	mu   sync.Mutex
	snap *tracker.Tracker
}

func (d *diskSource) load() *tracker.Tracker {
	gw, err := storage.Open(d.cfg.Storage.Backend, d.base)
	if err != nil {
		d.logger.Printf("warning: %v (using last known state)", err)
		if d.snap != nil {
			return d.snap
		}
		return tracker.Open(storage.NewMemory())
	}
	defer gw.Close()
	return tracker.Open(gw, tracker.WithLogger(d.logger), tracker.ReadOnly())
}

func (d *diskSource) Settings() model.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snap = d.load()
	return d.snap.Settings()
}

func (d *diskSource) DayLog(key model.DateKey) model.DayLog {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snap == nil {
		d.snap = d.load()
	}
	return d.snap.DayLog(key)
}

func runWatch(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.Load(base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	logger := log.New(os.Stderr, "hourlog: ", 0)
	src := &diskSource{base: base, cfg: cfg, logger: logger}
	src.Settings()
	if !src.snap.SetupComplete() {
		return errNotSetUp
	}

	out := cmd.OutOrStdout()
	s := src.snap.Settings()
	fmt.Fprintf(out, "Watching %s - %s. Press Ctrl+C to stop.\n",
		timecalc.FormatClock(s.StartHour), timecalc.FormatClock(s.EndHour))
	if !s.NotificationsEnabled {
		fmt.Fprintln(out, "Reminders are off; turn them on with: hourlog settings --notify")
	}

	sched := &reminder.Scheduler{
		Source: src,
		Presenter: reminder.Multi{
			reminder.Console{W: out},
			notify.NewDesktop(cfg.Reminder.Sound),
		},
		Interval: cfg.Reminder.Interval(),
		Grace:    cfg.Reminder.GraceMinutes,
		Logger:   logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	fmt.Fprintln(out, "Stopped.")
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/config"
	"github.com/Tiliavir/hourlog/internal/storage"
	"github.com/Tiliavir/hourlog/internal/tracker"
	"github.com/Tiliavir/hourlog/internal/view"
)

// version is reported by the MCP server.
const version = "0.1.0"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "hourlog",
	Short: "hourlog – log how you spend every hour of your work day",
	Long: `hourlog asks one question per hour: how did you spend it?
Answer with work, rest, doomscroll or other, then look back at your day,
your history and a few insights. All data is stored in ~/.hourlog/.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(mcpCmd)
}

var errNotSetUp = errors.New("hourlog is not set up yet; run: hourlog setup --start 09:00 --end 18:00")

// app bundles what a command needs: the data directory, the config and the
// tracker opened on the configured backend.
type app struct {
	base string
	cfg  config.Config
	gw   storage.Gateway
	tr   *tracker.Tracker
}

// openApp loads config and data. Storage failures exit with status 2.
func openApp() *app {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.Load(base)
	if err != nil {
		// Unreadable config: warn and continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	gw, err := storage.Open(cfg.Storage.Backend, base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	tr := tracker.Open(gw,
		tracker.WithLogger(log.New(os.Stderr, "hourlog: ", 0)),
		tracker.WithThresholds(cfg.Insights),
	)
	return &app{base: base, cfg: cfg, gw: gw, tr: tr}
}

// openReadyApp is openApp for commands that need a completed setup.
func openReadyApp() (*app, error) {
	a := openApp()
	if !a.tr.SetupComplete() {
		a.close()
		return nil, errNotSetUp
	}
	return a, nil
}

func (a *app) close() {
	if err := a.gw.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing storage: %v\n", err)
	}
}

// exitOnWriteError reports a failed save and exits with status 2. The change
// was applied in memory only.
func exitOnWriteError(a *app, err error) {
	var werr *storage.WriteError
	if !errors.As(err, &werr) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: could not save: %v\n", err)
	a.close()
	os.Exit(2)
}

func renderer() view.Renderer {
	return view.Renderer{Plain: noColor}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/tracker"
)

var (
	exportFormat string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export logged hours to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Only export the last N days (0 = everything)")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want csv, json or yaml)", exportFormat)
	}

	a := openApp()
	defer a.close()

	var since model.DateKey
	if exportDays > 0 {
		since = timecalc.AddDays(a.tr.Today(), -(exportDays - 1))
	}
	return writeExport(cmd.OutOrStdout(), exportFormat, a.tr.Records(since))
}

// writeExport encodes records in format (csv, json or yaml).
func writeExport(w io.Writer, format string, records []tracker.Record) error {
	if records == nil {
		records = []tracker.Record{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default: // csv
		printCSV(w, records)
	}
	return nil
}

func printCSV(w io.Writer, records []tracker.Record) {
	fmt.Fprintln(w, "date,hour,activity,note,created_at")
	for _, r := range records {
		fmt.Fprintf(w, "%s,%d,%s,%s,%s\n",
			csvEscape(string(r.Date)),
			r.Hour,
			csvEscape(string(r.Activity)),
			csvEscape(r.Note),
			csvEscape(r.CreatedAt.Format(time.RFC3339)),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

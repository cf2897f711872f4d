package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all logged hours and settings",
	Long:  "Delete all logged hours and settings and return to the first-run state. This cannot be undone.",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting all data")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return errors.New("this deletes all logged hours and settings; re-run with --yes to confirm")
	}

	a := openApp()
	defer a.close()

	if err := a.tr.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.close()
		os.Exit(2)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ All data cleared. Run hourlog setup to start again.")
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourlog/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve hourlog as MCP tools over stdio",
	Long: `Serve hourlog as a Model Context Protocol server on stdin/stdout.
Tools: log_hour, day_log, period_stats, insights.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.close()

	if err := mcpserver.Serve(a.tr, version); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		a.close()
		os.Exit(1)
	}
	return nil
}

// Package mcpserver exposes the tracker as MCP tools over stdio, so an
// assistant can log hours and read summaries.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Tiliavir/hourlog/internal/insights"
	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/storage"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/tracker"
	"github.com/Tiliavir/hourlog/internal/view"
)

// Handlers implements the tool callbacks. The server is long-lived while
// the CLI writes the same storage, so every call reloads the tracker first.
type Handlers struct {
	tr   *tracker.Tracker
	view view.Renderer
}

// NewHandlers returns handlers backed by tr.
func NewHandlers(tr *tracker.Tracker) *Handlers {
	return &Handlers{tr: tr, view: view.Renderer{Plain: true}}
}

// New builds the MCP server with every hourlog tool registered.
func New(tr *tracker.Tracker, version string) *server.MCPServer {
	h := NewHandlers(tr)
	s := server.NewMCPServer("hourlog", version)

	s.AddTool(mcp.NewTool("log_hour",
		mcp.WithDescription("Logs how an hour of the work window was spent. Defaults to the hour that just ended."),
		mcp.WithString("activity", mcp.Required(), mcp.Description("One of: work, rest, doomscroll, other")),
		mcp.WithNumber("hour", mcp.Description("Hour slot 0-23; defaults to the last completed hour")),
		mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD; defaults to today")),
		mcp.WithString("note", mcp.Description("Optional short note")),
	), h.LogHour)

	s.AddTool(mcp.NewTool("day_log",
		mcp.WithDescription("Shows the hour-by-hour log of one day."),
		mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD; defaults to today")),
	), h.DayLog)

	s.AddTool(mcp.NewTool("period_stats",
		mcp.WithDescription("Counts logged hours per activity over the last week or month."),
		mcp.WithString("period", mcp.Required(), mcp.Description("week or month")),
	), h.PeriodStats)

	s.AddTool(mcp.NewTool("insights",
		mcp.WithDescription("Summarises the last week or month in a few short insights."),
		mcp.WithString("period", mcp.Required(), mcp.Description("week or month")),
	), h.Insights)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(tr *tracker.Tracker, version string) error {
	return server.ServeStdio(New(tr, version))
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return strings.TrimSpace(s)
}

// hourArg returns the hour argument and whether it was given.
func hourArg(args map[string]any) (model.Hour, bool, error) {
	switch v := args["hour"].(type) {
	case nil:
		return 0, false, nil
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("hour must be a whole number, got %v", v)
		}
		return model.Hour(int(v)), true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("hour must be a number, got %q", v)
		}
		return model.Hour(n), true, nil
	}
	return 0, true, fmt.Errorf("hour must be a number")
}

func (h *Handlers) dateArg(args map[string]any) (model.DateKey, error) {
	s := stringArg(args, "date")
	if s == "" {
		return h.tr.Today(), nil
	}
	return timecalc.ParseDateKey(s)
}

// LogHour handles the log_hour tool.
func (h *Handlers) LogHour(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.tr.Reload()
	args := arguments(request)

	activity, err := model.ParseActivity(stringArg(args, "activity"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := h.dateArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hour, given, err := hourArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !given {
		if hour, err = h.tr.HourToLog(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	entry, err := h.tr.Log(key, hour, activity, stringArg(args, "note"))
	var werr *storage.WriteError
	if errors.As(err, &werr) {
		return mcp.NewToolResultError(fmt.Sprintf("Logged in memory but not saved: %v", err)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to log hour: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Logged %s %s for %s, %s.",
		entry.Activity.Emoji(), entry.Activity.Label(), key, timecalc.FormatHourRange(hour))), nil
}

// DayLog handles the day_log tool.
func (h *Handlers) DayLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.tr.Reload()
	key, err := h.dateArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sb strings.Builder
	h.view.Timeline(&sb, h.tr.Settings(), key, h.tr.DayLog(key))
	return mcp.NewToolResultText(sb.String()), nil
}

// PeriodStats handles the period_stats tool.
func (h *Handlers) PeriodStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.tr.Reload()
	p, err := insights.ParsePeriod(stringArg(arguments(request), "period"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sb strings.Builder
	h.view.Stats(&sb, fmt.Sprintf("Last %d days", int(p)), h.tr.Period(p))
	return mcp.NewToolResultText(sb.String()), nil
}

// Insights handles the insights tool.
func (h *Handlers) Insights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.tr.Reload()
	p, err := insights.ParsePeriod(stringArg(arguments(request), "period"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sb strings.Builder
	h.view.Insights(&sb, h.tr.Insights(p))
	return mcp.NewToolResultText(sb.String()), nil
}

// Package view renders tracker data for the terminal.
package view

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/hourlog/internal/insights"
	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/workwindow"
)

// DefaultHistoryDays is how many days History shows unless told otherwise.
const DefaultHistoryDays = 14

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

// Renderer writes views to a terminal. With Plain set, no styling is applied.
type Renderer struct {
	Plain bool
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if r.Plain {
		return text
	}
	return s.Render(text)
}

func (r Renderer) activity(a model.Activity) string {
	label := a.Emoji() + " " + a.Label()
	if r.Plain {
		return label
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color())).Bold(true).Render(label)
}

// Timeline prints one line per loggable hour of the day at key, showing the
// logged activity and note or "Not logged".
func (r Renderer) Timeline(w io.Writer, s model.Settings, key model.DateKey, day model.DayLog) {
	fmt.Fprintln(w, r.style(titleStyle, timecalc.FormatDateDisplay(key)))
	for _, h := range workwindow.LoggableHours(s) {
		slot := fmt.Sprintf("%-20s", timecalc.FormatHourRange(h))
		e, ok := day[h]
		if !ok {
			fmt.Fprintf(w, "  %s %s\n", slot, r.style(dimStyle, "Not logged"))
			continue
		}
		line := fmt.Sprintf("  %s %s", slot, r.activity(e.Activity))
		if e.Note != "" {
			line += "  " + r.style(dimStyle, e.Note)
		}
		fmt.Fprintln(w, line)
	}
	logged := len(day)
	fmt.Fprintf(w, "  %d of %d hours logged\n", logged, len(workwindow.LoggableHours(s)))
}

// Stats prints the hours per activity and the total.
func (r Renderer) Stats(w io.Writer, title string, g insights.Aggregate) {
	fmt.Fprintln(w, r.style(headerStyle, title))
	for _, a := range model.Activities {
		fmt.Fprintf(w, "  %s %3dh\n", padRight(a.Emoji()+" "+a.Label(), 16, r.activity(a)), g.Count(a))
	}
	fmt.Fprintf(w, "  %-16s %3dh\n", "Total", g.Total())
}

// padRight pads styled so that its visible width matches plain padded to n.
func padRight(plain string, n int, styled string) string {
	if pad := n - lipgloss.Width(plain); pad > 0 {
		return styled + strings.Repeat(" ", pad)
	}
	return styled
}

// History prints up to limit days from keys (expected newest first), each
// with a count summary and its entries in hour order.
func (r Renderer) History(w io.Writer, src insights.DaySource, keys []model.DateKey, limit int) {
	if len(keys) == 0 {
		fmt.Fprintln(w, "No history yet. Start logging with: hourlog log <activity>")
		return
	}
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	for i, key := range keys {
		if i > 0 {
			fmt.Fprintln(w)
		}
		day := src.DayLog(key)
		g := insights.DayCounts(day)
		fmt.Fprintf(w, "%s  %s\n", r.style(headerStyle, timecalc.FormatDateDisplay(key)), r.style(dimStyle, summary(g)))

		hours := make([]model.Hour, 0, len(day))
		for h := range day {
			hours = append(hours, h)
		}
		sort.Slice(hours, func(i, j int) bool { return hours[i] < hours[j] })
		for _, h := range hours {
			e := day[h]
			line := fmt.Sprintf("  %-20s %s", timecalc.FormatHourRange(h), r.activity(e.Activity))
			if e.Note != "" {
				line += "  " + r.style(dimStyle, e.Note)
			}
			fmt.Fprintln(w, line)
		}
	}
}

func summary(g insights.Aggregate) string {
	parts := []string{
		fmt.Sprintf("%s %dh", model.Work.Emoji(), g.Work),
		fmt.Sprintf("%s %dh", model.Rest.Emoji(), g.Rest),
		fmt.Sprintf("%s %dh", model.Doomscroll.Emoji(), g.Doomscroll),
	}
	if g.Other > 0 {
		parts = append(parts, fmt.Sprintf("%s %dh", model.Other.Emoji(), g.Other))
	}
	return strings.Join(parts, "  ")
}

// Insights prints one block per card.
func (r Renderer) Insights(w io.Writer, cards []insights.Card) {
	for _, c := range cards {
		body := c.Icon + " " + c.Title + "\n" + c.Text
		if r.Plain {
			fmt.Fprintln(w, body)
			continue
		}
		fmt.Fprintln(w, cardStyle.Render(body))
	}
}

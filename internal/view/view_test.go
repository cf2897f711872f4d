package view_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hourlog/internal/insights"
	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/view"
)

var plain = view.Renderer{Plain: true}

type days map[model.DateKey]model.DayLog

func (d days) DayLog(key model.DateKey) model.DayLog { return d[key] }

func TestTimeline(t *testing.T) {
	var buf bytes.Buffer
	s := model.Settings{StartHour: 9, EndHour: 12}
	day := model.DayLog{
		10: {Activity: model.Work, Note: "standup"},
	}
	plain.Timeline(&buf, s, "2026-10-16", day)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Friday, October 16", lines[0])
	assert.Contains(t, lines[1], "9:00 AM - 10:00 AM")
	assert.Contains(t, lines[1], "Not logged")
	assert.Contains(t, lines[2], "💼 Work")
	assert.Contains(t, lines[2], "standup")
	assert.Contains(t, lines[3], "11:00 AM - 12:00 PM")
	assert.Equal(t, "  1 of 3 hours logged", lines[4])
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	plain.Stats(&buf, "Last 7 days", insights.Aggregate{Work: 5, Rest: 2, Doomscroll: 1})
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Last 7 days\n"))
	assert.Contains(t, out, "💼 Work")
	assert.Contains(t, out, "  5h")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "  8h")
}

func TestHistory(t *testing.T) {
	src := days{
		"2026-10-16": {11: {Activity: model.Rest}, 9: {Activity: model.Work, Note: "mail"}},
		"2026-10-15": {10: {Activity: model.Doomscroll}},
		"2026-10-14": {10: {Activity: model.Work}},
	}
	var buf bytes.Buffer
	plain.History(&buf, src, []model.DateKey{"2026-10-16", "2026-10-15", "2026-10-14"}, 2)
	out := buf.String()

	assert.Contains(t, out, "Friday, October 16  💼 1h  ☕ 1h  📱 0h")
	assert.Contains(t, out, "Thursday, October 15")
	assert.NotContains(t, out, "October 14", "limit caps the number of days")
	assert.Less(t, strings.Index(out, "9:00 AM"), strings.Index(out, "11:00 AM"), "entries in hour order")
	assert.Contains(t, out, "mail")
}

func TestHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	plain.History(&buf, days{}, nil, view.DefaultHistoryDays)
	assert.Contains(t, buf.String(), "No history yet")
}

func TestInsights(t *testing.T) {
	var buf bytes.Buffer
	cards := insights.Derive(insights.Aggregate{}, insights.DefaultThresholds())
	plain.Insights(&buf, cards)
	assert.Equal(t, "📊 No data yet\nStart logging your hours to see insights!\n", buf.String())

	buf.Reset()
	view.Renderer{}.Insights(&buf, cards)
	assert.Contains(t, buf.String(), "No data yet")
}

package insights_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hourlog/internal/insights"
	"github.com/Tiliavir/hourlog/internal/logstore"
	"github.com/Tiliavir/hourlog/internal/model"
)

const today model.DateKey = "2026-10-16"

func commitAll(t *testing.T, s *logstore.Store, key model.DateKey, first model.Hour, acts ...model.Activity) {
	t.Helper()
	for i, a := range acts {
		_, err := s.Commit(key, first+model.Hour(i), a, "", time.Now())
		require.NoError(t, err)
	}
}

func kinds(cards []insights.Card) []insights.Kind {
	out := make([]insights.Kind, len(cards))
	for i, c := range cards {
		out[i] = c.Kind
	}
	return out
}

func TestPeriodCountsScenario(t *testing.T) {
	s := logstore.New()
	commitAll(t, s, today, 9,
		model.Work, model.Work, model.Work, model.Work, model.Work,
		model.Rest, model.Rest,
		model.Doomscroll)

	agg := insights.PeriodCounts(s, today, insights.Week)
	assert.Equal(t, insights.Aggregate{Work: 5, Rest: 2, Doomscroll: 1, Other: 0}, agg)

	cards := insights.Derive(agg, insights.DefaultThresholds())
	require.Equal(t, []insights.Kind{insights.ProductivityChampion, insights.RestBalance}, kinds(cards))
	assert.Equal(t, "You spent 63% of your time working. Keep it up!", cards[0].Text)
	assert.Equal(t, "You took 2 hours of rest. Balance is key!", cards[1].Text)
}

func TestPeriodCountsWindow(t *testing.T) {
	s := logstore.New()
	commitAll(t, s, "2026-10-10", 9, model.Work)          // 6 days back, inside a week
	commitAll(t, s, "2026-10-09", 9, model.Rest)          // 7 days back, outside a week
	commitAll(t, s, "2026-09-17", 9, model.Other)         // 29 days back, inside a month
	commitAll(t, s, "2026-09-16", 9, model.Doomscroll)    // 30 days back, outside a month
	commitAll(t, s, "2026-10-17", 9, model.Work)          // tomorrow, never counted

	assert.Equal(t, insights.Aggregate{Work: 1}, insights.PeriodCounts(s, today, insights.Week))
	assert.Equal(t, insights.Aggregate{Work: 1, Rest: 1, Other: 1}, insights.PeriodCounts(s, today, insights.Month))
}

func TestPeriodCountsAcrossClockChange(t *testing.T) {
	// 2026-03-29 is the EU spring-forward day; calendar stepping still covers 7 days.
	s := logstore.New()
	for _, k := range []model.DateKey{"2026-03-26", "2026-03-27", "2026-03-28", "2026-03-29", "2026-03-30", "2026-03-31", "2026-04-01"} {
		commitAll(t, s, k, 9, model.Work)
	}
	assert.Equal(t, 7, insights.PeriodCounts(s, "2026-04-01", insights.Week).Work)
}

func TestEmptyAggregate(t *testing.T) {
	agg := insights.PeriodCounts(logstore.New(), today, insights.Month)
	assert.Equal(t, insights.Aggregate{}, agg)

	cards := insights.Derive(agg, insights.DefaultThresholds())
	require.Len(t, cards, 1)
	assert.Equal(t, insights.NoData, cards[0].Kind)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		agg  insights.Aggregate
		want []insights.Kind
	}{
		{"champion at exactly 60", insights.Aggregate{Work: 3, Other: 2}, []insights.Kind{insights.ProductivityChampion}},
		{"good progress at 40", insights.Aggregate{Work: 2, Other: 3}, []insights.Kind{insights.GoodProgress}},
		{"below 40 gives no work card", insights.Aggregate{Work: 1, Other: 4}, []insights.Kind{insights.KeepLogging}},
		{"screen time at 20", insights.Aggregate{Work: 2, Doomscroll: 1, Other: 2}, []insights.Kind{insights.GoodProgress, insights.ScreenTimeAlert}},
		{"everything fires in order", insights.Aggregate{Work: 6, Doomscroll: 2, Rest: 1, Other: 1}, []insights.Kind{insights.ProductivityChampion, insights.ScreenTimeAlert, insights.RestBalance}},
		{"rest only", insights.Aggregate{Rest: 4}, []insights.Kind{insights.RestBalance}},
		{"doomscroll only", insights.Aggregate{Doomscroll: 1}, []insights.Kind{insights.ScreenTimeAlert}},
		{"other only falls back", insights.Aggregate{Other: 3}, []insights.Kind{insights.KeepLogging}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(insights.Derive(tt.agg, insights.DefaultThresholds())))
		})
	}
}

func TestDeriveRoundsHalfUp(t *testing.T) {
	// 1/8 = 12.5% rounds to 13%; 3/8 = 37.5% rounds to 38% (below 40).
	cards := insights.Derive(insights.Aggregate{Work: 3, Other: 5}, insights.DefaultThresholds())
	assert.Equal(t, []insights.Kind{insights.KeepLogging}, kinds(cards))

	// 39.5% rounds to 40% and earns Good Progress.
	cards = insights.Derive(insights.Aggregate{Work: 79, Other: 121}, insights.DefaultThresholds())
	require.Equal(t, []insights.Kind{insights.GoodProgress}, kinds(cards))
	assert.Equal(t, "40% work time. Room for improvement!", cards[0].Text)
}

func TestDeriveRestWording(t *testing.T) {
	cards := insights.Derive(insights.Aggregate{Rest: 1}, insights.DefaultThresholds())
	require.Len(t, cards, 1)
	assert.Equal(t, "You took 1 hour of rest. Balance is key!", cards[0].Text)
}

func TestDeriveCustomThresholds(t *testing.T) {
	th := insights.Thresholds{ChampionPercent: 90, ProgressPercent: 80, ScreenTimePercent: 50}
	cards := insights.Derive(insights.Aggregate{Work: 7, Doomscroll: 3}, th)
	assert.Equal(t, []insights.Kind{insights.KeepLogging}, kinds(cards))
}

func TestDayCounts(t *testing.T) {
	day := model.DayLog{
		9:  {Activity: model.Work},
		10: {Activity: model.Work},
		11: {Activity: model.Other},
	}
	agg := insights.DayCounts(day)
	assert.Equal(t, 2, agg.Count(model.Work))
	assert.Equal(t, 1, agg.Count(model.Other))
	assert.Equal(t, 3, agg.Total())
}

func TestParsePeriod(t *testing.T) {
	p, err := insights.ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, insights.Week, p)
	p, err = insights.ParsePeriod("month")
	require.NoError(t, err)
	assert.Equal(t, insights.Month, p)
	_, err = insights.ParsePeriod("year")
	assert.Error(t, err)
	assert.Equal(t, "week", insights.Week.String())
}

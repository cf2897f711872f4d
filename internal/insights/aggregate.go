// Package insights folds logged hours into per-activity counts and derives
// short, threshold-based statements about them.
package insights

import (
	"fmt"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
)

// Period is a trailing window length in days.
type Period int

const (
	Week  Period = 7
	Month Period = 30
)

// ParsePeriod accepts "week" or "month".
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	}
	return 0, fmt.Errorf("unknown period %q (want week or month)", s)
}

func (p Period) String() string {
	switch p {
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return fmt.Sprintf("%d days", int(p))
}

// Aggregate counts logged hours per activity.
type Aggregate struct {
	Work       int `json:"work" yaml:"work"`
	Rest       int `json:"rest" yaml:"rest"`
	Doomscroll int `json:"doomscroll" yaml:"doomscroll"`
	Other      int `json:"other" yaml:"other"`
}

// Add increments the counter for a. Unknown activities are ignored.
func (g *Aggregate) Add(a model.Activity) {
	switch a {
	case model.Work:
		g.Work++
	case model.Rest:
		g.Rest++
	case model.Doomscroll:
		g.Doomscroll++
	case model.Other:
		g.Other++
	}
}

// Count returns the counter for a.
func (g Aggregate) Count(a model.Activity) int {
	switch a {
	case model.Work:
		return g.Work
	case model.Rest:
		return g.Rest
	case model.Doomscroll:
		return g.Doomscroll
	case model.Other:
		return g.Other
	}
	return 0
}

// Total is the number of logged hours across all activities.
func (g Aggregate) Total() int {
	return g.Work + g.Rest + g.Doomscroll + g.Other
}

// DaySource yields the entries logged on a day.
type DaySource interface {
	DayLog(key model.DateKey) model.DayLog
}

// DayCounts counts the entries of a single day.
func DayCounts(day model.DayLog) Aggregate {
	var g Aggregate
	for _, e := range day {
		g.Add(e.Activity)
	}
	return g
}

// PeriodCounts counts entries over the p days ending at and including today,
// stepping back one calendar day at a time. Days without entries add nothing.
func PeriodCounts(src DaySource, today model.DateKey, p Period) Aggregate {
	var g Aggregate
	for i := 0; i < int(p); i++ {
		for _, e := range src.DayLog(timecalc.AddDays(today, -i)) {
			g.Add(e.Activity)
		}
	}
	return g
}

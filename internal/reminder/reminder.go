// Package reminder decides when to ask the user to log the hour that just
// ended, and runs that check on a schedule.
package reminder

import (
	"fmt"
	"time"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/workwindow"
)

// DefaultGrace is how many minutes into an hour a reminder may still fire.
const DefaultGrace = 5

// Notice asks the user to classify Hour on Date.
type Notice struct {
	Date  model.DateKey
	Hour  model.Hour
	Title string
	Body  string
}

// Due reports whether a reminder for the previous hour should be shown at
// now. It only reads its arguments. day holds today's entries.
func Due(now time.Time, s model.Settings, day model.DayLog, grace int) (Notice, bool) {
	if !s.NotificationsEnabled {
		return Notice{}, false
	}
	if now.Minute() > grace {
		return Notice{}, false
	}
	previous := model.Hour(now.Hour() - 1)
	if !previous.Valid() || !workwindow.IsLoggable(previous, s) {
		return Notice{}, false
	}
	if _, logged := day[previous]; logged {
		return Notice{}, false
	}
	return Notice{
		Date:  timecalc.DateKeyOf(now),
		Hour:  previous,
		Title: "⏰ Time to log!",
		Body:  fmt.Sprintf("How did you spend %s?", timecalc.FormatHourRange(previous)),
	}, true
}

// Package workwindow decides which hours of a day can be logged.
//
// The window is [StartHour, EndHour) on a single day. Windows that cross
// midnight are not supported.
package workwindow

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/hourlog/internal/model"
)

var (
	// ErrInvalidWindow is returned when the start hour is not before the end hour.
	ErrInvalidWindow = errors.New("end time must be after start time")
	// ErrOutsideWindow is returned when an hour falls outside the work window.
	ErrOutsideWindow = errors.New("outside work hours")
)

// IsLoggable reports whether h lies in [s.StartHour, s.EndHour).
func IsLoggable(h model.Hour, s model.Settings) bool {
	return h >= s.StartHour && h < s.EndHour
}

// LoggableHours returns the hours of the window in ascending order.
func LoggableHours(s model.Settings) []model.Hour {
	if s.EndHour <= s.StartHour {
		return nil
	}
	hours := make([]model.Hour, 0, s.EndHour-s.StartHour)
	for h := s.StartHour; h < s.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Validate is the single gate for window edits, used at first-run setup and
// for later settings changes. NotificationsEnabled is left false.
func Validate(start, end model.Hour) (model.Settings, error) {
	if !start.Valid() || !end.Valid() {
		return model.Settings{}, fmt.Errorf("%w: hours must be within 0-23 (got %d-%d)", ErrInvalidWindow, start, end)
	}
	if start >= end {
		return model.Settings{}, fmt.Errorf("%w (got %02d:00-%02d:00)", ErrInvalidWindow, start, end)
	}
	return model.Settings{StartHour: start, EndHour: end}, nil
}

// HourToLog picks the hour a "log the last hour" action should open: the
// previous hour when it is loggable, otherwise the current hour, otherwise
// ErrOutsideWindow. There is no previous hour at midnight.
func HourToLog(now time.Time, s model.Settings) (model.Hour, error) {
	current := model.Hour(now.Hour())
	if previous := current - 1; previous.Valid() && IsLoggable(previous, s) {
		return previous, nil
	}
	if IsLoggable(current, s) {
		return current, nil
	}
	return 0, ErrOutsideWindow
}

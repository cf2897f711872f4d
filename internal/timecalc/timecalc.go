package timecalc

import (
	"fmt"
	"time"

	"github.com/Tiliavir/hourlog/internal/model"
)

const dateKeyLayout = "2006-01-02"

// DateKeyOf returns the calendar day of t in t's own location.
func DateKeyOf(t time.Time) model.DateKey {
	return model.DateKey(t.Format(dateKeyLayout))
}

// ParseDateKey validates s as a canonical YYYY-MM-DD key.
func ParseDateKey(s string) (model.DateKey, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Format(dateKeyLayout) != s {
		return "", fmt.Errorf("invalid date %q: not in YYYY-MM-DD form", s)
	}
	return model.DateKey(s), nil
}

// AddDays moves k by n calendar days. The arithmetic is done on the calendar,
// so days that are 23 or 25 hours long locally still count as one day.
func AddDays(k model.DateKey, n int) model.DateKey {
	t, err := time.Parse(dateKeyLayout, string(k))
	if err != nil {
		return k
	}
	return DateKeyOf(t.AddDate(0, 0, n))
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// FormatTime12h renders a 24h clock time as e.g. "9:05 AM" or "12:00 PM".
func FormatTime12h(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, period)
}

// FormatHourRange renders the one-hour slot starting at h, e.g.
// "9:00 AM - 10:00 AM". The end wraps from 23 to midnight.
func FormatHourRange(h model.Hour) string {
	start := int(h)
	end := (start + 1) % 24
	return FormatTime12h(start, 0) + " - " + FormatTime12h(end, 0)
}

// FormatDateDisplay renders k as e.g. "Friday, October 16".
func FormatDateDisplay(k model.DateKey) string {
	t, err := time.Parse(dateKeyLayout, string(k))
	if err != nil {
		return string(k)
	}
	return t.Format("Monday, January 2")
}

// FormatClock renders h as "HH:00".
func FormatClock(h model.Hour) string {
	return fmt.Sprintf("%02d:00", int(h))
}

// ParseClock parses "HH:MM" and returns the hour. Minutes are validated but
// otherwise ignored, since slots are whole hours.
func ParseClock(s string) (model.Hour, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM): %w", s, err)
	}
	return model.Hour(t.Hour()), nil
}

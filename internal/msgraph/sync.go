package msgraph

import (
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/workwindow"
)

// SyncResult holds counters for a sync operation. Counters are per hour slot.
type SyncResult struct {
	Imported int
	Updated  int
	Skipped  int // already logged by the user
	Outside  int // outside the work window
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	// From and To bound the days that are logged; zero means unbounded.
	From      time.Time
	To        time.Time
	Timezone  string
	DryRun    bool
	Overwrite bool
	// Out receives one progress line per slot; nil discards.
	Out io.Writer
}

// Target is where imported hours are logged. *tracker.Tracker satisfies it.
type Target interface {
	Settings() model.Settings
	Entry(key model.DateKey, hour model.Hour) (model.LogEntry, bool)
	Log(key model.DateKey, hour model.Hour, activity model.Activity, note string) (model.LogEntry, error)
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// EventHours returns the local day an event starts on and the hour slots of
// that day it overlaps. An event running past midnight is clipped to its
// start day; an empty or inverted event overlaps nothing.
func EventHours(event CalendarEvent, tz string) (model.DateKey, []model.Hour, error) {
	start, err := parseGraphTime(event.Start.DateTime, tz)
	if err != nil {
		return "", nil, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, tz)
	if err != nil {
		return "", nil, fmt.Errorf("parsing end time: %w", err)
	}
	start, end = start.Local(), end.Local()

	key := timecalc.DateKeyOf(start)
	if !end.After(start) {
		return key, nil, nil
	}
	var hours []model.Hour
	for h := start.Hour(); h < 24; h++ {
		slot := time.Date(start.Year(), start.Month(), start.Day(), h, 0, 0, 0, time.Local)
		if !slot.Before(end) {
			break
		}
		hours = append(hours, model.Hour(h))
	}
	return key, hours, nil
}

// inRange reports whether key lies within the optional From/To days.
func inRange(key model.DateKey, opts SyncOptions) bool {
	if !opts.From.IsZero() && key < timecalc.DateKeyOf(opts.From) {
		return false
	}
	if !opts.To.IsZero() && key > timecalc.DateKeyOf(opts.To) {
		return false
	}
	return true
}

func meetingNote(event CalendarEvent) string {
	if event.Subject == "" {
		return "Meeting"
	}
	return "Meeting: " + event.Subject
}

// SyncEvents logs every hour slot covered by a busy event as work. Slots the
// user already logged are left alone unless opts.Overwrite is set; slots
// outside the work window are counted and skipped. With opts.DryRun nothing
// is logged.
func SyncEvents(t Target, events []CalendarEvent, opts SyncOptions) SyncResult {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	settings := t.Settings()

	var result SyncResult
	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		key, hours, err := EventHours(event, opts.Timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		if !inRange(key, opts) {
			continue
		}

		note := meetingNote(event)
		for _, h := range hours {
			slot := fmt.Sprintf("%s %s", key, timecalc.FormatHourRange(h))
			if !workwindow.IsLoggable(h, settings) {
				result.Outside++
				continue
			}
			_, exists := t.Entry(key, h)
			if exists && !opts.Overwrite {
				fmt.Fprintf(out, "  – Skipped:  %s %s (already logged)\n", slot, event.Subject)
				result.Skipped++
				continue
			}
			if !opts.DryRun {
				if _, err := t.Log(key, h, model.Work, note); err != nil {
					fmt.Fprintf(out, "  ! Error logging %s %q: %v\n", slot, event.Subject, err)
					result.Errors++
					continue
				}
			}
			if exists {
				fmt.Fprintf(out, "  ↑ Updated:  %s %s\n", slot, event.Subject)
				result.Updated++
			} else {
				fmt.Fprintf(out, "  ✓ Imported: %s %s\n", slot, event.Subject)
				result.Imported++
			}
		}
	}
	return result
}

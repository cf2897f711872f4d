package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownActivity is returned when an activity token is not one of the
// four known activities.
var ErrUnknownActivity = errors.New("unknown activity")

// Activity classifies how one hour was spent.
type Activity string

const (
	Work       Activity = "work"
	Rest       Activity = "rest"
	Doomscroll Activity = "doomscroll"
	Other      Activity = "other"
)

// Activities lists every activity in display order.
var Activities = []Activity{Work, Rest, Doomscroll, Other}

type activityMeta struct {
	label string
	emoji string
	color string
}

var activityInfo = map[Activity]activityMeta{
	Work:       {label: "Work", emoji: "💼", color: "#22c55e"},
	Rest:       {label: "Rest", emoji: "☕", color: "#3b82f6"},
	Doomscroll: {label: "Doomscroll", emoji: "📱", color: "#f97316"},
	Other:      {label: "Other", emoji: "✨", color: "#a855f7"},
}

// ParseActivity converts a token such as "work" into an Activity.
func ParseActivity(s string) (Activity, error) {
	a := Activity(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w %q (want one of work, rest, doomscroll, other)", ErrUnknownActivity, s)
	}
	return a, nil
}

// Valid reports whether a is one of the known activities.
func (a Activity) Valid() bool {
	_, ok := activityInfo[a]
	return ok
}

// Label is the human-readable name, e.g. "Doomscroll".
func (a Activity) Label() string { return activityInfo[a].label }

// Emoji is the icon shown next to the label.
func (a Activity) Emoji() string { return activityInfo[a].emoji }

// Color is the hex color used when rendering the activity.
func (a Activity) Color() string { return activityInfo[a].color }

// UnmarshalText rejects unknown tokens so that invalid activities never get
// past decoding.
func (a *Activity) UnmarshalText(text []byte) error {
	parsed, err := ParseActivity(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// DateKey identifies a local calendar day in YYYY-MM-DD form.
type DateKey string

// Hour is an hour-of-day slot in [0,23] covering [Hour:00, Hour+1:00).
type Hour int

// Valid reports whether h is within [0,23].
func (h Hour) Valid() bool { return h >= 0 && h <= 23 }

// LogEntry is one classification of one hour on one day.
type LogEntry struct {
	Activity  Activity
	Note      string
	CreatedAt time.Time
}

// DayLog maps logged hours of a single day to their entries.
type DayLog map[Hour]LogEntry

// Package logstore holds the per-hour activity log: one entry per
// (date, hour), overwritten on re-commit.
//
// A Store is not safe for concurrent use; the owner serializes access.
package logstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
)

var (
	// ErrMalformed reports persisted log data that could not be decoded as a whole.
	ErrMalformed = errors.New("malformed log data")
	// ErrInvalidHour is returned for hours outside 0-23.
	ErrInvalidHour = errors.New("hour must be within 0-23")
	// ErrInvalidEntry reports a single persisted entry that was dropped on load.
	ErrInvalidEntry = errors.New("invalid log entry")
)

// Store maps days to their logged hours.
type Store struct {
	days map[model.DateKey]model.DayLog
}

// entryRecord is the persisted form of a LogEntry.
type entryRecord struct {
	Activity  string `json:"activity"`
	Note      string `json:"note"`
	Timestamp int64  `json:"timestamp"`
}

// New returns an empty store.
func New() *Store {
	return &Store{days: map[model.DateKey]model.DayLog{}}
}

// Load decodes persisted log data. It always returns a usable store: empty
// input gives an empty store, undecodable input gives an empty store plus an
// ErrMalformed error, and individual bad entries are dropped and reported
// through a joined error while the rest is kept.
func Load(data []byte) (*Store, error) {
	s := New()
	if len(data) == 0 {
		return s, nil
	}

	var raw map[string]map[string]entryRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var problems []error
	for dateStr, hours := range raw {
		key, err := timecalc.ParseDateKey(dateStr)
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: %v", ErrInvalidEntry, err))
			continue
		}
		for hourStr, rec := range hours {
			n, err := strconv.Atoi(hourStr)
			if err != nil || !model.Hour(n).Valid() || strconv.Itoa(n) != hourStr {
				problems = append(problems, fmt.Errorf("%w: %s hour %q", ErrInvalidEntry, dateStr, hourStr))
				continue
			}
			activity, err := model.ParseActivity(rec.Activity)
			if err != nil {
				problems = append(problems, fmt.Errorf("%w: %s %s: %v", ErrInvalidEntry, dateStr, hourStr, err))
				continue
			}
			s.put(key, model.Hour(n), model.LogEntry{
				Activity:  activity,
				Note:      rec.Note,
				CreatedAt: time.UnixMilli(rec.Timestamp),
			})
		}
	}
	return s, errors.Join(problems...)
}

// Serialize encodes the store in the form Load reads.
func (s *Store) Serialize() ([]byte, error) {
	out := make(map[string]map[string]entryRecord, len(s.days))
	for key, day := range s.days {
		hours := make(map[string]entryRecord, len(day))
		for h, e := range day {
			hours[strconv.Itoa(int(h))] = entryRecord{
				Activity:  string(e.Activity),
				Note:      e.Note,
				Timestamp: e.CreatedAt.UnixMilli(),
			}
		}
		out[string(key)] = hours
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding logs: %w", err)
	}
	return data, nil
}

// Commit stores an entry for (key, hour), replacing any previous one. The note
// is trimmed, invalid UTF-8 in it is replaced with U+FFFD, and CreatedAt is
// set to now at millisecond precision.
// Whether the hour is inside the work window is not checked here.
func (s *Store) Commit(key model.DateKey, hour model.Hour, activity model.Activity, note string, now time.Time) (model.LogEntry, error) {
	if _, err := timecalc.ParseDateKey(string(key)); err != nil {
		return model.LogEntry{}, err
	}
	if !hour.Valid() {
		return model.LogEntry{}, fmt.Errorf("%w (got %d)", ErrInvalidHour, hour)
	}
	if !activity.Valid() {
		return model.LogEntry{}, fmt.Errorf("%w %q", model.ErrUnknownActivity, activity)
	}
	entry := model.LogEntry{
		Activity:  activity,
		Note:      strings.ToValidUTF8(strings.TrimSpace(note), "\uFFFD"),
		CreatedAt: time.UnixMilli(now.UnixMilli()),
	}
	s.put(key, hour, entry)
	return entry, nil
}

func (s *Store) put(key model.DateKey, hour model.Hour, e model.LogEntry) {
	day, ok := s.days[key]
	if !ok {
		day = model.DayLog{}
		s.days[key] = day
	}
	day[hour] = e
}

// Get returns the entry for (key, hour), if any.
func (s *Store) Get(key model.DateKey, hour model.Hour) (model.LogEntry, bool) {
	e, ok := s.days[key][hour]
	return e, ok
}

// DayLog returns a copy of the entries logged on key. The result is empty,
// never nil, for days without entries.
func (s *Store) DayLog(key model.DateKey) model.DayLog {
	day := s.days[key]
	out := make(model.DayLog, len(day))
	for h, e := range day {
		out[h] = e
	}
	return out
}

// DateKeys returns every day with at least one entry, newest first.
func (s *Store) DateKeys() []model.DateKey {
	keys := make([]model.DateKey, 0, len(s.days))
	for k, day := range s.days {
		if len(day) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}

// Len returns the total number of entries.
func (s *Store) Len() int {
	n := 0
	for _, day := range s.days {
		n += len(day)
	}
	return n
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.days = map[model.DateKey]model.DayLog{}
}

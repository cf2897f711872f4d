// Package tracker is the application context: it owns the settings, the log
// store and the gateway they persist to, and is passed explicitly to every
// caller that reads or changes them.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Tiliavir/hourlog/internal/insights"
	"github.com/Tiliavir/hourlog/internal/logstore"
	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/storage"
	"github.com/Tiliavir/hourlog/internal/timecalc"
	"github.com/Tiliavir/hourlog/internal/workwindow"
)

// keyLogsBackup receives the raw logs blob when it could not be fully loaded,
// before the next write replaces it.
const keyLogsBackup = "logs.corrupt"

// ErrReadOnly is returned by mutations on a tracker opened with ReadOnly.
var ErrReadOnly = errors.New("tracker is read-only")

// Tracker is safe for concurrent use. Every mutation holds the lock across
// reload, commit and persist.
type Tracker struct {
	mu            sync.RWMutex
	gw            storage.Gateway
	store         *logstore.Store
	settings      model.Settings
	setupComplete bool
	// unsaved marks records whose last write failed; reloads keep their
	// in-memory state.
	unsaved  map[string]bool
	readOnly bool

	thresholds insights.Thresholds
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for load and persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// ReadOnly opens the tracker for observers such as the reminder loop: Open
// makes no backup of unreadable logs and every mutation returns ErrReadOnly.
func ReadOnly() Option {
	return func(t *Tracker) { t.readOnly = true }
}

// WithThresholds sets the insight cutoffs.
func WithThresholds(th insights.Thresholds) Option {
	return func(t *Tracker) { t.thresholds = th }
}

// settingsRecord is the persisted form of model.Settings.
type settingsRecord struct {
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

// Open loads the settings, setup flag and logs from gw. Missing or unreadable
// records fall back to defaults; Open never fails.
func Open(gw storage.Gateway, opts ...Option) *Tracker {
	t := &Tracker{
		gw:         gw,
		store:      logstore.New(),
		settings:   model.DefaultSettings(),
		unsaved:    map[string]bool{},
		thresholds: insights.DefaultThresholds(),
		logger:     log.New(io.Discard, "", 0),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.loadSettings()
	t.loadSetupComplete()
	t.loadLogs()
	return t
}

// fetch reads key. A missing record gives (nil, true); a read failure is
// logged and gives (nil, false).
func (t *Tracker) fetch(key string) ([]byte, bool) {
	data, err := t.gw.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		t.logger.Printf("warning: reading %s: %v", key, err)
		return nil, false
	}
	return data, true
}

func (t *Tracker) read(key string) []byte {
	data, _ := t.fetch(key)
	return data
}

func (t *Tracker) loadSettings() {
	data := t.read(storage.KeySettings)
	if data == nil {
		return
	}
	s, err := decodeSettings(data)
	if err != nil {
		t.logger.Printf("warning: ignoring stored settings: %v", err)
		return
	}
	t.settings = s
}

func decodeSettings(data []byte) (model.Settings, error) {
	var rec settingsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	start, err := timecalc.ParseClock(rec.StartTime)
	if err != nil {
		return model.Settings{}, err
	}
	end, err := timecalc.ParseClock(rec.EndTime)
	if err != nil {
		return model.Settings{}, err
	}
	s, err := workwindow.Validate(start, end)
	if err != nil {
		return model.Settings{}, err
	}
	s.NotificationsEnabled = rec.NotificationsEnabled
	return s, nil
}

func (t *Tracker) loadSetupComplete() {
	data := t.read(storage.KeySetupComplete)
	if data == nil {
		return
	}
	var done bool
	if err := json.Unmarshal(data, &done); err != nil {
		t.logger.Printf("warning: ignoring stored setup flag: %v", err)
		return
	}
	t.setupComplete = done
}

func (t *Tracker) loadLogs() {
	data := t.read(storage.KeyLogs)
	store, err := logstore.Load(data)
	t.store = store
	if err == nil {
		return
	}
	if errors.Is(err, logstore.ErrMalformed) {
		t.logger.Printf("warning: stored logs are unreadable, starting empty: %v", err)
	} else {
		t.logger.Printf("warning: dropped invalid log entries: %v", err)
	}
	if t.readOnly {
		return
	}
	if werr := t.gw.Set(keyLogsBackup, data); werr != nil {
		t.logger.Printf("warning: could not back up stored logs: %v", werr)
	}
}

// reloadLocked replaces the in-memory records with the stored ones, so writes
// by other hourlog processes are not lost. Records that cannot be read, or
// whose last write failed, keep their in-memory state.
func (t *Tracker) reloadLocked() {
	if data, ok := t.fetch(storage.KeySettings); ok && !t.unsaved[storage.KeySettings] {
		t.settings = model.DefaultSettings()
		if data != nil {
			if s, err := decodeSettings(data); err == nil {
				t.settings = s
			}
		}
	}
	if data, ok := t.fetch(storage.KeySetupComplete); ok && !t.unsaved[storage.KeySetupComplete] {
		var done bool
		if data != nil && json.Unmarshal(data, &done) != nil {
			done = false
		}
		t.setupComplete = done
	}
	if data, ok := t.fetch(storage.KeyLogs); ok && !t.unsaved[storage.KeyLogs] {
		store, err := logstore.Load(data)
		if !errors.Is(err, logstore.ErrMalformed) {
			t.store = store
		}
	}
}

// Reload re-reads settings and logs from the gateway.
func (t *Tracker) Reload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reloadLocked()
}

// persist writes one record. A failure is logged and returned; in-memory
// state is kept either way.
func (t *Tracker) persist(key string, encode func() ([]byte, error)) error {
	data, err := encode()
	if err != nil {
		err = &storage.WriteError{Key: key, Err: err}
	} else {
		err = t.gw.Set(key, data)
	}
	t.unsaved[key] = err != nil
	if err != nil {
		t.logger.Printf("warning: %v (change kept in memory)", err)
	}
	return err
}

func (t *Tracker) persistLogs() error {
	return t.persist(storage.KeyLogs, t.store.Serialize)
}

func (t *Tracker) persistSettings() error {
	s := t.settings
	return t.persist(storage.KeySettings, func() ([]byte, error) {
		return json.Marshal(settingsRecord{
			StartTime:            timecalc.FormatClock(s.StartHour),
			EndTime:              timecalc.FormatClock(s.EndHour),
			NotificationsEnabled: s.NotificationsEnabled,
		})
	})
}

func (t *Tracker) persistSetupComplete() error {
	done := t.setupComplete
	return t.persist(storage.KeySetupComplete, func() ([]byte, error) {
		return json.Marshal(done)
	})
}

// Settings returns the current work window and reminder preference.
func (t *Tracker) Settings() model.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings
}

// SetupComplete reports whether first-run setup has been done.
func (t *Tracker) SetupComplete() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.setupComplete
}

// CompleteSetup validates and stores the first-run settings and marks setup
// as done. On an invalid window nothing changes.
func (t *Tracker) CompleteSetup(start, end model.Hour, notify bool) error {
	if t.readOnly {
		return ErrReadOnly
	}
	s, err := workwindow.Validate(start, end)
	if err != nil {
		return err
	}
	s.NotificationsEnabled = notify

	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = s
	t.setupComplete = true
	return errors.Join(t.persistSettings(), t.persistSetupComplete())
}

// UpdateSettings validates and stores new settings. On an invalid window the
// previous settings stay in effect.
func (t *Tracker) UpdateSettings(start, end model.Hour, notify bool) error {
	if t.readOnly {
		return ErrReadOnly
	}
	s, err := workwindow.Validate(start, end)
	if err != nil {
		return err
	}
	s.NotificationsEnabled = notify

	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = s
	return t.persistSettings()
}

// Today returns the local date key of the tracker's clock.
func (t *Tracker) Today() model.DateKey {
	return timecalc.DateKeyOf(t.now())
}

// HourToLog returns the hour a "log last hour" action should target now.
func (t *Tracker) HourToLog() (model.Hour, error) {
	return workwindow.HourToLog(t.now(), t.Settings())
}

// Log records activity for (key, hour), replacing any earlier entry. The hour
// must be inside the work window. The stored records are re-read first, so
// entries written by other processes survive. If the entry is stored in memory
// but cannot be persisted, the entry is returned together with a
// *storage.WriteError.
func (t *Tracker) Log(key model.DateKey, hour model.Hour, activity model.Activity, note string) (model.LogEntry, error) {
	if t.readOnly {
		return model.LogEntry{}, ErrReadOnly
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reloadLocked()

	if !workwindow.IsLoggable(hour, t.settings) {
		return model.LogEntry{}, fmt.Errorf("%w: %s is not within %s-%s",
			workwindow.ErrOutsideWindow, timecalc.FormatHourRange(hour),
			timecalc.FormatClock(t.settings.StartHour), timecalc.FormatClock(t.settings.EndHour))
	}
	entry, err := t.store.Commit(key, hour, activity, note, t.now())
	if err != nil {
		return model.LogEntry{}, err
	}
	return entry, t.persistLogs()
}

// Entry returns the entry for (key, hour), if any.
func (t *Tracker) Entry(key model.DateKey, hour model.Hour) (model.LogEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.Get(key, hour)
}

// DayLog returns a copy of the entries for key.
func (t *Tracker) DayLog(key model.DateKey) model.DayLog {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.DayLog(key)
}

// DateKeys returns every day with entries, newest first.
func (t *Tracker) DateKeys() []model.DateKey {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.DateKeys()
}

// Period counts entries over p days ending today.
func (t *Tracker) Period(p insights.Period) insights.Aggregate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return insights.PeriodCounts(t.store, timecalc.DateKeyOf(t.now()), p)
}

// Insights derives the insight cards for p days ending today.
func (t *Tracker) Insights(p insights.Period) []insights.Card {
	return insights.Derive(t.Period(p), t.thresholds)
}

// Record is one entry flattened with its position, for export.
type Record struct {
	Date      model.DateKey  `json:"date" yaml:"date"`
	Hour      model.Hour     `json:"hour" yaml:"hour"`
	Activity  model.Activity `json:"activity" yaml:"activity"`
	Note      string         `json:"note" yaml:"note"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// Records returns all entries on or after since (all entries when since is
// empty), oldest first.
func (t *Tracker) Records(since model.DateKey) []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Record
	for _, key := range t.store.DateKeys() {
		if since != "" && key < since {
			continue
		}
		for h, e := range t.store.DayLog(key) {
			out = append(out, Record{Date: key, Hour: h, Activity: e.Activity, Note: e.Note, CreatedAt: e.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// Clear erases all logs and settings, in memory and in the gateway, and
// returns the tracker to the first-run state. It cannot be undone.
func (t *Tracker) Clear() error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store.Clear()
	t.settings = model.DefaultSettings()
	t.setupComplete = false
	t.unsaved = map[string]bool{}
	if err := t.gw.ClearAll(); err != nil {
		t.logger.Printf("warning: %v", err)
		return err
	}
	return nil
}

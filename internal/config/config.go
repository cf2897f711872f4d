package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/hourlog/internal/insights"
	"github.com/Tiliavir/hourlog/internal/reminder"
)

// Config is the application configuration, stored in ~/.hourlog/config.json.
// The file supports single-line // comments for documentation purposes.
// The work window itself is not configured here; it is user data set with
// `hourlog setup` and `hourlog settings`.
type Config struct {
	Storage  StorageConfig       `json:"storage"`
	Reminder ReminderConfig      `json:"reminder"`
	Insights insights.Thresholds `json:"insights"`
	Outlook  OutlookConfig       `json:"outlook"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "file" (one JSON file per record) or "badger".
	Backend string `json:"backend"`
}

// ReminderConfig tunes the hourly reminder loop of `hourlog watch`.
type ReminderConfig struct {
	IntervalSeconds int  `json:"interval_seconds"`
	GraceMinutes    int  `json:"grace_minutes"`
	Sound           bool `json:"sound"`
}

// Interval returns the check interval as a duration.
func (r ReminderConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = local.
	Timezone string `json:"timezone"`
}

const (
	// DefaultBackend stores records as JSON files.
	DefaultBackend = "file"
	// DefaultIntervalSeconds checks for due reminders once a minute.
	DefaultIntervalSeconds = 60
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: DefaultBackend},
		Reminder: ReminderConfig{
			IntervalSeconds: DefaultIntervalSeconds,
			GraceMinutes:    reminder.DefaultGrace,
		},
		Insights: insights.DefaultThresholds(),
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// hourlog configuration – ~/.hourlog/config.json
//
// All settings are optional; missing values fall back to the defaults below.
// Your work window is not set here: use "hourlog setup" / "hourlog settings".
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "file"   – one JSON file per record in ~/.hourlog/data (default)
    // "badger" – embedded key-value database in ~/.hourlog/badger;
    //            one hourlog process at a time ("hourlog mcp" holds it open)
    "backend": "file"
  },

  // ── Hourly reminders (hourlog watch) ─────────────────────────────────────
  "reminder": {
    // How often to check whether the last hour still needs logging.
    "interval_seconds": 60,
    // Reminders fire only in the first N minutes of an hour.
    "grace_minutes": 5,
    // Play the alert sound with the desktop notification.
    "sound": false
  },

  // ── Insight thresholds (percent of logged hours) ─────────────────────────
  "insights": {
    "champion_percent": 60,
    "progress_percent": 40,
    "screen_time_percent": 20
  },

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    // Azure AD tenant ID ("common" works for personal accounts).
    "tenant_id": "common",
    // Azure application (client) ID used for the OAuth2 device code flow.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",
    // IANA timezone for calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use the local timezone.
    "timezone": ""
  }
}
`

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. Warnings about an unwritable template go to stderr.
func Load(base string) (Config, error) {
	path := filepath.Join(base, "config.json")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig()
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Reminder.IntervalSeconds <= 0 {
		cfg.Reminder.IntervalSeconds = def.Reminder.IntervalSeconds
	}
	if cfg.Reminder.GraceMinutes <= 0 || cfg.Reminder.GraceMinutes > 59 {
		cfg.Reminder.GraceMinutes = def.Reminder.GraceMinutes
	}
	if cfg.Insights.ChampionPercent <= 0 {
		cfg.Insights.ChampionPercent = def.Insights.ChampionPercent
	}
	if cfg.Insights.ProgressPercent <= 0 {
		cfg.Insights.ProgressPercent = def.Insights.ProgressPercent
	}
	if cfg.Insights.ScreenTimePercent <= 0 {
		cfg.Insights.ScreenTimePercent = def.Insights.ScreenTimePercent
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = def.Outlook.TenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = def.Outlook.ClientID
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

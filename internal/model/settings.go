package model

// Settings is the user's work window and reminder preference.
// StartHour < EndHour always holds for settings that passed validation.
type Settings struct {
	StartHour            Hour
	EndHour              Hour
	NotificationsEnabled bool
}

// DefaultSettings returns the 09:00-18:00 window with notifications off.
func DefaultSettings() Settings {
	return Settings{StartHour: 9, EndHour: 18}
}

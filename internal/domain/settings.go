package domain

// Settings holds the per-session notification preferences.
type Settings struct {
	NotificationsEnabled bool
	SoundEnabled         bool
}

// DefaultSettings returns the settings used before anything is persisted.
func DefaultSettings() Settings {
	return Settings{NotificationsEnabled: true, SoundEnabled: true}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	NotificationsEnabled *bool
	SoundEnabled         *bool
}

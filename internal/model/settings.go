package model

// Language is the display language of user-facing messages.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHindi   Language = "Hindi"
)

// Settings is the process-wide preferences record. The engine only reads
// the alarm defaults and the language.
type Settings struct {
	DarkMode             bool     `json:"darkMode"`
	Language             Language `json:"language"`
	DefaultAlarmSound    Sound    `json:"defaultAlarmSound"`
	DefaultAlarmDuration int      `json:"defaultAlarmDuration"`
	EnableAssistant      bool     `json:"enableAssistant"`
}

// DefaultSettings returns the settings used before the user changes any.
func DefaultSettings() Settings {
	return Settings{
		Language:             LanguageEnglish,
		DefaultAlarmSound:    SoundClassic,
		DefaultAlarmDuration: 60,
	}
}

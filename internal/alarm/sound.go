package alarm

import "github.com/habibpatelhabib78-png/dailymate-app/internal/model"

var soundURLs = map[model.Sound]string{
	model.SoundClassic: "https://assets.mixkit.co/active_storage/sfx/2869/2869-preview.mp3",
	model.SoundZen:     "https://assets.mixkit.co/active_storage/sfx/1070/1070-preview.mp3",
	model.SoundDigital: "https://assets.mixkit.co/active_storage/sfx/991/991-preview.mp3",
}

// SoundURL returns the audio file for s, falling back to the classic beep
// for unknown sounds.
func SoundURL(s model.Sound) string {
	if url, ok := soundURLs[s]; ok {
		return url
	}
	return soundURLs[model.SoundClassic]
}

const msgAudioBlocked = "Tap screen to enable audio!"

var snoozedMessages = map[model.Language]string{
	model.LanguageEnglish: "Snoozed for 5 mins",
	model.LanguageHindi:   "5 मिनट के लिए स्थगित",
}

func snoozedMessage(lang model.Language) string {
	if msg, ok := snoozedMessages[lang]; ok {
		return msg
	}
	return snoozedMessages[model.LanguageEnglish]
}

package transcriber

import (
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
)

const (
	defaultEncoding   = "LINEAR16"
	defaultSampleRate = 16000
	autoLanguage      = "auto"
	primaryLanguage   = "lt-LT"
)

var autoAlternatives = []string{"en-US", "ru-RU", "pl-PL", "de-DE"}

//ApplyDefaults fills the missing recognition settings.
//The config is captured once at job creation and never changed afterwards
func ApplyDefaults(config *persistence.RecognitionConfig) {
	config.Encoding = defaultEncoding
	config.SampleRateHertz = defaultSampleRate
	config.EnableAutomaticPunctuation = true
	config.EnableWordTimeOffsets = true
	if config.LanguageCode == "" || config.LanguageCode == autoLanguage {
		config.LanguageCode = primaryLanguage
		config.AlternativeLanguageCodes = append([]string{}, autoAlternatives...)
	}
	if d := config.Diarization; d != nil && d.Enabled {
		if d.MinSpeakers < 1 {
			d.MinSpeakers = 1
		}
		if d.MaxSpeakers == 0 {
			d.MaxSpeakers = 5
		}
		if d.MaxSpeakers < d.MinSpeakers {
			d.MaxSpeakers = d.MinSpeakers
		}
	}
}

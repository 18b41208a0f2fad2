package transcriber

import (
	"testing"

	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	c := persistence.RecognitionConfig{LanguageCode: "en-US"}
	ApplyDefaults(&c)
	assert.Equal(t, "LINEAR16", c.Encoding)
	assert.Equal(t, 16000, c.SampleRateHertz)
	assert.Equal(t, "en-US", c.LanguageCode)
	assert.Empty(t, c.AlternativeLanguageCodes)
	assert.True(t, c.EnableAutomaticPunctuation)
	assert.True(t, c.EnableWordTimeOffsets)
}

func TestApplyDefaults_Auto(t *testing.T) {
	for _, lang := range []string{"", "auto"} {
		c := persistence.RecognitionConfig{LanguageCode: lang}
		ApplyDefaults(&c)
		assert.Equal(t, "lt-LT", c.LanguageCode)
		assert.Equal(t, []string{"en-US", "ru-RU", "pl-PL", "de-DE"}, c.AlternativeLanguageCodes)
	}
}

func TestApplyDefaults_Diarization(t *testing.T) {
	c := persistence.RecognitionConfig{Diarization: &persistence.Diarization{Enabled: true}}
	ApplyDefaults(&c)
	assert.Equal(t, 1, c.Diarization.MinSpeakers)
	assert.Equal(t, 5, c.Diarization.MaxSpeakers)

	c = persistence.RecognitionConfig{Diarization: &persistence.Diarization{Enabled: true, MinSpeakers: 7}}
	ApplyDefaults(&c)
	assert.Equal(t, 7, c.Diarization.MinSpeakers)
	assert.Equal(t, 7, c.Diarization.MaxSpeakers)

	c = persistence.RecognitionConfig{Diarization: &persistence.Diarization{Enabled: false}}
	ApplyDefaults(&c)
	assert.Equal(t, 0, c.Diarization.MinSpeakers)
	assert.Equal(t, 0, c.Diarization.MaxSpeakers)
}

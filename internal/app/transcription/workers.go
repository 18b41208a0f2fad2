package transcription

import (
	"context"
	"io"

	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"bitbucket.org/airenas/vtgo/internal/pkg/transcriber"
)

// DurationProber reads media duration, a failure yields nil
type DurationProber interface {
	Probe(ctx context.Context, file string) *float64
}

// AudioExtractor produces a normalized waveform for recognition
type AudioExtractor interface {
	Extract(ctx context.Context, id string, videoFile string) (string, error)
}

// AudioPublisher moves the prepared audio to durable storage
type AudioPublisher interface {
	Upload(ctx context.Context, key string, filePath string) (string, error)
}

// Transcriber returns the recognition result for the published audio
type Transcriber interface {
	Transcribe(ctx context.Context, audioURI string, config *persistence.RecognitionConfig) (*transcriber.Result, error)
}

// Translator returns text translated to the target language
type Translator interface {
	Translate(ctx context.Context, text string, targetLang string) (string, error)
}

// Archiver keeps the raw provider payload
type Archiver interface {
	Save(name string, reader io.Reader) error
}

// ModelMap provides the provider model name by alias
type ModelMap interface {
	Get(alias string) (string, error)
}

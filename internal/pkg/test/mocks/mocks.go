package mocks

import (
	"context"
	"io"

	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"bitbucket.org/airenas/vtgo/internal/pkg/fetch"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"bitbucket.org/airenas/vtgo/internal/pkg/transcriber"
	"github.com/stretchr/testify/mock"
)

//UploadAcquirer is a mock
type UploadAcquirer struct{ mock.Mock }

//Acquire mock method
func (m *UploadAcquirer) Acquire(ctx context.Context, fileName string, size int64, reader io.Reader) (string, *fetch.Provenance, error) {
	args := m.Called(ctx, fileName, size, reader)
	var p *fetch.Provenance
	if args.Get(1) != nil {
		p = args.Get(1).(*fetch.Provenance)
	}
	return args.String(0), p, args.Error(2)
}

//RemoteAcquirer is a mock
type RemoteAcquirer struct{ mock.Mock }

//Accepts mock method
func (m *RemoteAcquirer) Accepts(rawURL string) bool {
	args := m.Called(rawURL)
	return args.Bool(0)
}

//Acquire mock method
func (m *RemoteAcquirer) Acquire(ctx context.Context, rawURL string) (string, *fetch.Provenance, error) {
	args := m.Called(ctx, rawURL)
	var p *fetch.Provenance
	if args.Get(1) != nil {
		p = args.Get(1).(*fetch.Provenance)
	}
	return args.String(0), p, args.Error(2)
}

//DurationProber is a mock
type DurationProber struct{ mock.Mock }

//Probe mock method
func (m *DurationProber) Probe(ctx context.Context, file string) *float64 {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*float64)
}

//AudioExtractor is a mock
type AudioExtractor struct{ mock.Mock }

//Extract mock method
func (m *AudioExtractor) Extract(ctx context.Context, id string, videoFile string) (string, error) {
	args := m.Called(ctx, id, videoFile)
	return args.String(0), args.Error(1)
}

//AudioPublisher is a mock
type AudioPublisher struct{ mock.Mock }

//Upload mock method
func (m *AudioPublisher) Upload(ctx context.Context, key string, filePath string) (string, error) {
	args := m.Called(ctx, key, filePath)
	return args.String(0), args.Error(1)
}

//ModelMap is a mock
type ModelMap struct{ mock.Mock }

//Get mock method
func (m *ModelMap) Get(alias string) (string, error) {
	args := m.Called(alias)
	return args.String(0), args.Error(1)
}

//JobSaver is a mock
type JobSaver struct{ mock.Mock }

//Save mock method
func (m *JobSaver) Save(job *persistence.Job) error {
	args := m.Called(job)
	return args.Error(0)
}

//JobProvider is a mock
type JobProvider struct{ mock.Mock }

//Get mock method
func (m *JobProvider) Get(id string) (*persistence.Job, error) {
	args := m.Called(id)
	var j *persistence.Job
	if args.Get(0) != nil {
		j = args.Get(0).(*persistence.Job)
	}
	return j, args.Error(1)
}

//JobUpdater is a mock
type JobUpdater struct{ mock.Mock }

//Update mock method
func (m *JobUpdater) Update(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

//TranslationSaver is a mock
type TranslationSaver struct{ mock.Mock }

//Save mock method
func (m *TranslationSaver) Save(id string, tr *persistence.Translation) error {
	args := m.Called(id, tr)
	return args.Error(0)
}

//Transcriber is a mock
type Transcriber struct{ mock.Mock }

//Transcribe mock method
func (m *Transcriber) Transcribe(ctx context.Context, audioURI string, config *persistence.RecognitionConfig) (*transcriber.Result, error) {
	args := m.Called(ctx, audioURI, config)
	var r *transcriber.Result
	if args.Get(0) != nil {
		r = args.Get(0).(*transcriber.Result)
	}
	return r, args.Error(1)
}

//Translator is a mock
type Translator struct{ mock.Mock }

//Translate mock method
func (m *Translator) Translate(ctx context.Context, text string, targetLang string) (string, error) {
	args := m.Called(ctx, text, targetLang)
	return args.String(0), args.Error(1)
}

//Archiver is a mock
type Archiver struct{ mock.Mock }

//Save mock method
func (m *Archiver) Save(name string, reader io.Reader) error {
	args := m.Called(name, reader)
	return args.Error(0)
}

//EventSender is a mock
type EventSender struct{ mock.Mock }

//Send mock method
func (m *EventSender) Send(event *events.StatusEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

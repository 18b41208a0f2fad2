package transcription

import (
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
)

// JobSaver creates the job record
type JobSaver interface {
	Save(job *persistence.Job) error
}

// JobProvider returns the job record by ID
type JobProvider interface {
	Get(id string) (*persistence.Job, error)
}

// JobUpdater sets the provided fields on the job record
type JobUpdater interface {
	Update(id string, fields map[string]interface{}) error
}

// TranslationSaver replaces or appends one language entry of the job translations
type TranslationSaver interface {
	Save(id string, tr *persistence.Translation) error
}

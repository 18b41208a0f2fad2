package api

import "github.com/pkg/errors"

const (
	//PrmFile parameter
	PrmFile = "file"
	//PrmEmail parameter - optional notification address
	PrmEmail = "email"
	//PrmOwnerID parameter - opaque requesting principal reference
	PrmOwnerID = "ownerID"
	//PrmLanguage parameter - recognition language or 'auto'
	PrmLanguage = "language"
	//PrmTargetLang parameter - optional translation target
	PrmTargetLang = "targetLang"
	//PrmModel parameter - model alias, mapped to the provider model name
	PrmModel = "model"
	//PrmDiarization parameter - enable speaker separation
	PrmDiarization = "diarization"
	//PrmMinSpeakers parameter
	PrmMinSpeakers = "minSpeakers"
	//PrmMaxSpeakers parameter
	PrmMaxSpeakers = "maxSpeakers"
	//PrmURL parameter - remote media URL
	PrmURL = "url"
	//PrmSource parameter - remote source kind
	PrmSource = "source"
	//PrmTranslateLanguage parameter of the translate request
	PrmTranslateLanguage = "language"
)

//ErrModelNotFound indicates unknown model alias
var ErrModelNotFound = errors.New("Unknown model")

//JobResult - job create method response in JSON
type JobResult struct {
	ID string `json:"id"`
}

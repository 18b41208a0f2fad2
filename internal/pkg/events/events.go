package events

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
)

//Exchange is the fanout exchange for job status events.
//Every connected subscriber gets every event and filters by job id on its side
const Exchange = "JobStatusEvents"

//StatusEvent is the wire payload sent to live status subscribers
type StatusEvent struct {
	JobID                string                `json:"jobId"`
	Status               string                `json:"status"`
	Message              string                `json:"message,omitempty"`
	Transcription        string                `json:"transcription,omitempty"`
	Segments             []persistence.Segment `json:"segments,omitempty"`
	DetectedSpeakerCount int                   `json:"detectedSpeakerCount,omitempty"`
	TranslatedTranscript string                `json:"translatedTranscript,omitempty"`
	TargetLang           string                `json:"targetLang,omitempty"`
	At                   time.Time             `json:"at,omitempty"`
}

//NewStatusEvent creates the event with id and status
func NewStatusEvent(id string, status string, msg string) *StatusEvent {
	return &StatusEvent{JobID: id, Status: status, Message: msg, At: time.Now()}
}

//Sender publishes job status events to all live subscribers.
//Delivery is at-most-once and unordered across subscribers
type Sender interface {
	Send(event *StatusEvent) error
}

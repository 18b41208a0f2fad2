package persistence

import "time"

const (
	//FlStatus is the job status field name
	FlStatus = "status"
	//FlError is the job error message field name
	FlError = "error"
	//FlTranscript is the recognized text field name
	FlTranscript = "transcriptText"
	//FlSegments is the segments field name
	FlSegments = "segments"
	//FlSpeakerCount is the detected speaker count field name
	FlSpeakerCount = "detectedSpeakerCount"
)

type (
	//Segment is a time bounded span of recognized text
	Segment struct {
		Start      float64 `bson:"start" json:"start"`
		End        float64 `bson:"end" json:"end"`
		Text       string  `bson:"text" json:"text"`
		SpeakerTag int     `bson:"speakerTag,omitempty" json:"speakerTag,omitempty"`
	}

	//TranslatedSegment keeps a segment together with its translation
	TranslatedSegment struct {
		Start          float64 `bson:"start" json:"start"`
		End            float64 `bson:"end" json:"end"`
		Text           string  `bson:"text" json:"text"`
		TranslatedText string  `bson:"translatedText" json:"translatedText"`
	}

	//Translation is one target language entry. A job keeps at most one per language
	Translation struct {
		Language     string              `bson:"language" json:"language"`
		Segments     []TranslatedSegment `bson:"segments" json:"segments"`
		TranslatedAt time.Time           `bson:"translatedAt" json:"translatedAt"`
	}

	//Diarization keeps speaker separation bounds
	Diarization struct {
		Enabled     bool `bson:"enabled" json:"enabled"`
		MinSpeakers int  `bson:"minSpeakers,omitempty" json:"minSpeakers,omitempty"`
		MaxSpeakers int  `bson:"maxSpeakers,omitempty" json:"maxSpeakers,omitempty"`
	}

	//RecognitionConfig is captured at job creation and immutable afterwards
	RecognitionConfig struct {
		Encoding                   string       `bson:"encoding" json:"encoding"`
		SampleRateHertz            int          `bson:"sampleRateHertz" json:"sampleRateHertz"`
		LanguageCode               string       `bson:"languageCode" json:"languageCode"`
		AlternativeLanguageCodes   []string     `bson:"alternativeLanguageCodes,omitempty" json:"alternativeLanguageCodes,omitempty"`
		EnableAutomaticPunctuation bool         `bson:"enableAutomaticPunctuation" json:"enableAutomaticPunctuation"`
		EnableWordTimeOffsets      bool         `bson:"enableWordTimeOffsets" json:"enableWordTimeOffsets"`
		Model                      string       `bson:"model,omitempty" json:"model,omitempty"`
		Diarization                *Diarization `bson:"diarization,omitempty" json:"diarization,omitempty"`
	}

	//Job is the unit of work and its record of truth
	Job struct {
		ID                   string            `bson:"ID" json:"id"`
		OwnerID              string            `bson:"ownerID,omitempty" json:"ownerId,omitempty"`
		Email                string            `bson:"email,omitempty" json:"-"`
		SourceType           string            `bson:"sourceType" json:"sourceType"`
		OriginalLabel        string            `bson:"originalLabel,omitempty" json:"originalLabel,omitempty"`
		FileSize             int64             `bson:"fileSize,omitempty" json:"fileSize,omitempty"`
		LocalVideoRef        string            `bson:"localVideoRef,omitempty" json:"-"`
		LocalAudioRef        string            `bson:"localAudioRef,omitempty" json:"-"`
		AudioURI             string            `bson:"audioURI,omitempty" json:"audioUri,omitempty"`
		DurationSeconds      *float64          `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
		RecognitionConfig    RecognitionConfig `bson:"recognitionConfig" json:"recognitionConfig"`
		TargetLang           string            `bson:"targetLang,omitempty" json:"targetLang,omitempty"`
		Status               string            `bson:"status" json:"status"`
		TranscriptText       string            `bson:"transcriptText,omitempty" json:"transcriptText,omitempty"`
		Segments             []Segment         `bson:"segments,omitempty" json:"segments,omitempty"`
		DetectedSpeakerCount int               `bson:"detectedSpeakerCount,omitempty" json:"detectedSpeakerCount,omitempty"`
		Translations         []Translation     `bson:"translations,omitempty" json:"translations,omitempty"`
		ErrorMessage         string            `bson:"error,omitempty" json:"errorMessage,omitempty"`
		CreatedAt            time.Time         `bson:"createdAt" json:"createdAt"`
		UpdatedAt            time.Time         `bson:"updatedAt" json:"updatedAt"`
	}
)

//Translated returns the translation entry for lang or nil
func (j *Job) Translated(lang string) *Translation {
	for i := range j.Translations {
		if j.Translations[i].Language == lang {
			return &j.Translations[i]
		}
	}
	return nil
}

package transcription

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"bitbucket.org/airenas/vtgo/internal/pkg/status"
	"bitbucket.org/airenas/vtgo/internal/pkg/transcriber"
	"github.com/pkg/errors"
)

//runPipeline drives one job from queued to a terminal status.
//It runs detached from the request that created the job.
//The temporary audio file is removed no matter how the run ends
func (data *ServiceData) runPipeline(job *persistence.Job) {
	defer data.cleanupAudio(job)
	defer func() {
		if r := recover(); r != nil {
			cmdapp.Log.Errorf("Pipeline panic for %s: %v", job.ID, r)
			data.finishFailed(job.ID, fmt.Sprintf("Can't process job: %v", r))
		}
	}()
	ctx := context.Background()

	cmdapp.Log.Infof("Processing job %s", job.ID)
	data.sendEvent(events.NewStatusEvent(job.ID, status.Name(status.Processing), ""))
	err := data.JobUpdater.Update(job.ID, map[string]interface{}{
		persistence.FlStatus: status.Name(status.Processing)})
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't update status"))
	}

	res, err := data.Transcriber.Transcribe(ctx, job.AudioURI, &job.RecognitionConfig)
	if err != nil {
		data.finishFailed(job.ID, errors.Cause(err).Error())
		return
	}

	msg := successMessage(res)
	fields := map[string]interface{}{
		persistence.FlStatus:       status.Name(status.Success),
		persistence.FlTranscript:   res.Text,
		persistence.FlSegments:     res.Segments,
		persistence.FlSpeakerCount: res.SpeakerCount,
	}

	var translated []persistence.TranslatedSegment
	if job.TargetLang != "" && len(res.Segments) > 0 {
		data.sendEvent(events.NewStatusEvent(job.ID, status.Name(status.Processing),
			"Translating to "+job.TargetLang))
		translated, err = data.translateSegments(ctx, res.Segments, job.TargetLang)
		if err == nil {
			err = data.TranslationSaver.Save(job.ID,
				&persistence.Translation{Language: job.TargetLang, Segments: translated})
		}
		if err != nil {
			// translation stays subordinate, the job remains successful
			cmdapp.Log.Error(err)
			translated = nil
			fields[persistence.FlError] = "Can't translate to " + job.TargetLang
			msg = "Transcription succeeded, translation failed"
		} else {
			msg = "Transcription and translation done"
		}
	}

	err = data.JobUpdater.Update(job.ID, fields)
	if err != nil {
		// the record may stay stale, but subscribers still get the terminal event
		cmdapp.Log.Error(errors.Wrap(err, "Can't persist job result"))
	}

	ev := events.NewStatusEvent(job.ID, status.Name(status.Success), msg)
	ev.Transcription = res.Text
	ev.Segments = res.Segments
	ev.DetectedSpeakerCount = res.SpeakerCount
	if translated != nil {
		ev.TargetLang = job.TargetLang
		ev.TranslatedTranscript = joinTranslated(translated)
	}
	data.sendEvent(ev)

	data.archiveRaw(job.ID, res)
	cmdapp.Log.Infof("Finished job %s", job.ID)
}

//finishFailed moves the job to the terminal failed state.
//The terminal event fires even if the persist fails
func (data *ServiceData) finishFailed(id string, msg string) {
	err := data.JobUpdater.Update(id, map[string]interface{}{
		persistence.FlStatus:   status.Name(status.Failed),
		persistence.FlError:    msg,
		persistence.FlSegments: []persistence.Segment{},
	})
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't persist failure"))
	}
	data.sendEvent(events.NewStatusEvent(id, status.Name(status.Failed), msg))
}

//translateSegments calls the translator once per segment with no ordering
//dependency between segments. Results are collected by index, so the
//returned array keeps the original segment order
func (data *ServiceData) translateSegments(ctx context.Context, segments []persistence.Segment,
	lang string) ([]persistence.TranslatedSegment, error) {
	res := make([]persistence.TranslatedSegment, len(segments))
	var wg sync.WaitGroup
	var lock sync.Mutex
	var firstErr error
	for i, s := range segments {
		wg.Add(1)
		go func(i int, s persistence.Segment) {
			defer wg.Done()
			t, err := data.Translator.Translate(ctx, s.Text, lang)
			if err != nil {
				lock.Lock()
				if firstErr == nil {
					firstErr = err
				}
				lock.Unlock()
				return
			}
			res[i] = persistence.TranslatedSegment{Start: s.Start, End: s.End,
				Text: s.Text, TranslatedText: t}
		}(i, s)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "Can't translate to "+lang)
	}
	return res, nil
}

func (data *ServiceData) cleanupAudio(job *persistence.Job) {
	if job.LocalAudioRef == "" {
		return
	}
	if err := os.Remove(job.LocalAudioRef); err != nil && !os.IsNotExist(err) {
		cmdapp.Log.Warnf("Can't remove audio file %s: %v", job.LocalAudioRef, err)
	}
}

//archiveRaw keeps the raw provider payload for the job, best effort
func (data *ServiceData) archiveRaw(id string, res *transcriber.Result) {
	if len(res.Raw) == 0 {
		return
	}
	if err := data.Archiver.Save(id+".json", bytes.NewReader(res.Raw)); err != nil {
		cmdapp.Log.Warnf("Can't archive payload for %s: %v", id, err)
	}
}

func successMessage(res *transcriber.Result) string {
	if len(res.Segments) == 0 {
		if res.Text != "" {
			return "Transcription done, text available, no segments"
		}
		return "Transcription done, no text or segments"
	}
	return "Transcription done"
}

func joinTranslated(segments []persistence.TranslatedSegment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.TranslatedText != "" {
			texts = append(texts, s.TranslatedText)
		}
	}
	return strings.Join(texts, " ")
}

package audio

import (
	"context"
	"os"
	"path/filepath"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/cmdtool"
	"github.com/pkg/errors"
)

//Extractor transcodes video into a normalized waveform for recognition
type Extractor struct {
	// StoragePath is the folder for extracted audio files
	StoragePath string
	RunFunc     cmdtool.RunFunc
}

//NewExtractor creates Extractor instance
func NewExtractor(storagePath string) (*Extractor, error) {
	if storagePath == "" {
		return nil, errors.New("No audio storage path provided")
	}
	err := os.MkdirAll(storagePath, os.ModePerm)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init audio directory")
	}
	return &Extractor{StoragePath: storagePath, RunFunc: cmdtool.Run}, nil
}

//Extract produces a mono 16kHz PCM wav file named by the job id.
//The partial output is removed on failure
func (e *Extractor) Extract(ctx context.Context, id string, videoFile string) (string, error) {
	out := filepath.Join(e.StoragePath, id+".wav")
	cmdapp.Log.Infof("Extracting audio %s -> %s", videoFile, out)

	_, err := e.RunFunc(ctx, "ffmpeg",
		"-i", videoFile,
		"-vn", // drop video stream
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		out)
	if err != nil {
		if rErr := os.Remove(out); rErr != nil && !os.IsNotExist(rErr) {
			cmdapp.Log.Warnf("Can't remove partial file %s: %v", out, rErr)
		}
		return "", errors.Wrap(err, "Can't extract audio from "+videoFile)
	}
	return out, nil
}

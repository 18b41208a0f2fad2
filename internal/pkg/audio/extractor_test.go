package audio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	e := Extractor{StoragePath: dir}
	var gotArgs []string
	e.RunFunc = func(ctx context.Context, name string, args ...string) (string, error) {
		assert.Equal(t, "ffmpeg", name)
		gotArgs = args
		return "", nil
	}
	f, err := e.Extract(context.Background(), "id1", "/data/video.mp4")
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "id1.wav"), f)
	assert.Contains(t, gotArgs, "-vn")
	assert.Contains(t, gotArgs, "16000")
	assert.Contains(t, gotArgs, "pcm_s16le")
}

func TestExtract_Fails(t *testing.T) {
	e := Extractor{StoragePath: t.TempDir()}
	e.RunFunc = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("olia")
	}
	_, err := e.Extract(context.Background(), "id1", "/data/video.mp4")
	assert.NotNil(t, err)
}

func TestNewExtractor_FailsEmpty(t *testing.T) {
	_, err := NewExtractor("")
	assert.NotNil(t, err)
}

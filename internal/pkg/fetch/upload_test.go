package fetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadAcquire(t *testing.T) {
	a, err := NewUploadAdapter(t.TempDir())
	assert.Nil(t, err)
	a.NameFunc = func() string { return "job1" }

	file, prov, err := a.Acquire(context.Background(), "Talk.MP4", 4, strings.NewReader("data"))
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join(a.StoragePath, "job1.mp4"), file)
	assert.Equal(t, "Talk.MP4", prov.Label)
	assert.Equal(t, int64(4), prov.Size)
	content, err := os.ReadFile(file)
	assert.Nil(t, err)
	assert.Equal(t, "data", string(content))
}

func TestUploadAcquire_NoFile(t *testing.T) {
	a, err := NewUploadAdapter(t.TempDir())
	assert.Nil(t, err)
	_, _, err = a.Acquire(context.Background(), "", 0, strings.NewReader(""))
	assert.NotNil(t, err)
}

func TestNewUploadAdapter_FailsEmpty(t *testing.T) {
	_, err := NewUploadAdapter("")
	assert.NotNil(t, err)
}

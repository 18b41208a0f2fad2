package transcription

import (
	"context"
	"io"

	"bitbucket.org/airenas/vtgo/internal/pkg/fetch"
)

// UploadAcquirer stages a directly uploaded file
type UploadAcquirer interface {
	Acquire(ctx context.Context, fileName string, size int64, reader io.Reader) (string, *fetch.Provenance, error)
}

// RemoteAcquirer downloads media from a remote URL
type RemoteAcquirer interface {
	Accepts(rawURL string) bool
	Acquire(ctx context.Context, rawURL string) (string, *fetch.Provenance, error)
}

package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/saver"
	"github.com/pkg/errors"
)

//UploadAdapter moves an uploaded file into the staging area
type UploadAdapter struct {
	// StoragePath is the inbound media folder
	StoragePath string
	NameFunc    func() string
}

//NewUploadAdapter creates UploadAdapter instance
func NewUploadAdapter(storagePath string) (*UploadAdapter, error) {
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	err := os.MkdirAll(storagePath, os.ModePerm)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init staging directory")
	}
	return &UploadAdapter{StoragePath: storagePath, NameFunc: saver.NewStagingName}, nil
}

//Acquire writes the uploaded content to a staging file under a unique name.
//The partial file is removed on failure
func (a *UploadAdapter) Acquire(ctx context.Context, fileName string, size int64, reader io.Reader) (string, *Provenance, error) {
	if fileName == "" {
		return "", nil, errors.New("No file")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	target := filepath.Join(a.StoragePath, a.NameFunc()+ext)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return "", nil, errors.Wrap(err, "Can't create file "+target)
	}
	_, err = io.Copy(f, reader)
	cErr := f.Close()
	if err == nil {
		err = cErr
	}
	if err != nil {
		if rErr := os.Remove(target); rErr != nil {
			cmdapp.Log.Warnf("Can't remove partial file %s: %v", target, rErr)
		}
		return "", nil, errors.Wrap(err, "Can't save file "+target)
	}
	cmdapp.Log.Infof("Staged upload %s -> %s", fileName, target)
	return target, &Provenance{Label: fileName, Size: size}, nil
}

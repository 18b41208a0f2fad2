package saver

import (
	"io"
	"os"
	"path/filepath"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

//WriterCloser keeps Writer interface and close function
type WriterCloser interface {
	io.Writer
	Close() error
}

//OpenFileFunc declares function to open file by name and return Writer
type OpenFileFunc func(fileName string) (WriterCloser, error)

//LocalFileSaver saves files on local disk
type LocalFileSaver struct {
	// StoragePath is the main folder to save into
	StoragePath  string
	OpenFileFunc OpenFileFunc
}

//NewLocalFileSaver creates LocalFileSaver instance
func NewLocalFileSaver(storagePath string) (*LocalFileSaver, error) {
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	err := os.MkdirAll(storagePath, os.ModePerm)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init storage directory "+storagePath)
	}
	f := LocalFileSaver{StoragePath: storagePath, OpenFileFunc: openFile}
	return &f, nil
}

//Save saves file to disk
func (fs *LocalFileSaver) Save(name string, reader io.Reader) error {
	fileName := filepath.Join(fs.StoragePath, name)
	f, err := fs.OpenFileFunc(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't create file "+fileName)
	}
	defer f.Close()
	savedBytes, err := io.Copy(f, reader)
	if err != nil {
		return errors.Wrap(err, "Can't save file "+fileName)
	}
	cmdapp.Log.Infof("Saved file %s. Size = %d b", fileName, savedBytes)
	return nil
}

//Path returns the full path for name in the storage dir
func (fs *LocalFileSaver) Path(name string) string {
	return filepath.Join(fs.StoragePath, name)
}

//HealthyFunc returns liveness check function for the storage dir
func (fs *LocalFileSaver) HealthyFunc(minFreeMb int64) func() error {
	return func() error {
		st, err := os.Stat(fs.StoragePath)
		if err != nil {
			return errors.Wrap(err, "Can't stat "+fs.StoragePath)
		}
		if !st.IsDir() {
			return errors.New("Not a directory: " + fs.StoragePath)
		}
		return nil
	}
}

func openFile(fileName string) (WriterCloser, error) {
	return os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
}

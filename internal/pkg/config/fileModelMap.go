package config

import (
	"path/filepath"

	"bitbucket.org/airenas/vtgo/internal/app/transcription/api"
	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// FileModelMap maps a model alias to the provider model name.
// The file is watched and reloaded on change
type FileModelMap struct {
	Path string
	v    *viper.Viper
}

//NewFileModelMap creates FileModelMap instance
func NewFileModelMap(path string) (*FileModelMap, error) {
	cmdapp.Log.Infof("Init Model Map from: %s", path)
	if path == "" {
		return nil, errors.New("No path provided")
	}
	file := filepath.Join(path, "models.map.yml")
	return newFileModelMap(file)
}

func newFileModelMap(file string) (*FileModelMap, error) {
	cmdapp.Log.Infof("Init Model Map from: %s", file)
	if file == "" {
		return nil, errors.New("No model map file provided")
	}
	f := FileModelMap{}
	f.v = viper.New()
	f.v.SetConfigFile(file)
	f.v.SetConfigType("yml")
	err := f.v.ReadInConfig()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read models map file: "+file)
	}

	f.v.WatchConfig()
	f.v.OnConfigChange(func(e fsnotify.Event) {
		cmdapp.Log.Infof("Config reloaded from: %s", file)
	})
	return &f, nil
}

// Get return provider model name by alias
func (fs *FileModelMap) Get(alias string) (string, error) {
	var model string
	if alias == "" {
		model = fs.v.GetString("default")
	} else {
		model = fs.v.GetString(alias)
	}
	if model == "" {
		return "", api.ErrModelNotFound
	}
	return model, nil
}

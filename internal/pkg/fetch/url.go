package fetch

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/cmdtool"
	"bitbucket.org/airenas/vtgo/internal/pkg/saver"
	"github.com/pkg/errors"
)

var (
	youtubeRe = regexp.MustCompile(`^https?://(www\.|m\.)?(youtube\.com/watch\?|youtu\.be/)\S+$`)
	vimeoRe   = regexp.MustCompile(`^https?://(www\.)?vimeo\.com/\d+\S*$`)
)

//URLAdapter downloads remote media with an external acquisition tool
type URLAdapter struct {
	// Source names the remote kind for logs and errors
	Source      string
	StoragePath string
	NameFunc    func() string
	RunFunc     cmdtool.RunFunc

	urlRe     *regexp.Regexp
	extraArgs []string
	// outExt is set when the tool re-encodes to a known container
	outExt    string
	titleFunc func(u *url.URL) string
}

//NewYoutubeAdapter creates the youtube variant.
//The download is re-encoded to a standard mp4 container
func NewYoutubeAdapter(storagePath string) (*URLAdapter, error) {
	a, err := newURLAdapter(SourceYoutube, storagePath, youtubeRe)
	if err != nil {
		return nil, err
	}
	a.extraArgs = []string{"--recode-video", "mp4"}
	a.outExt = ".mp4"
	a.titleFunc = youtubeTitle
	return a, nil
}

//NewVimeoAdapter creates the vimeo variant, the media is taken as served
func NewVimeoAdapter(storagePath string) (*URLAdapter, error) {
	a, err := newURLAdapter(SourceVimeo, storagePath, vimeoRe)
	if err != nil {
		return nil, err
	}
	a.titleFunc = lastPathFragment
	return a, nil
}

func newURLAdapter(source, storagePath string, re *regexp.Regexp) (*URLAdapter, error) {
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	err := os.MkdirAll(storagePath, os.ModePerm)
	if err != nil {
		return nil, errors.Wrap(err, "Can't init staging directory")
	}
	return &URLAdapter{Source: source, StoragePath: storagePath,
		NameFunc: saver.NewStagingName, RunFunc: cmdtool.Run, urlRe: re}, nil
}

//Accepts checks the URL belongs to this source
func (a *URLAdapter) Accepts(rawURL string) bool {
	return a.urlRe.MatchString(rawURL)
}

//Acquire downloads media to the staging area.
//Exactly one file is left on success, partial files are removed on failure
func (a *URLAdapter) Acquire(ctx context.Context, rawURL string) (string, *Provenance, error) {
	if !a.Accepts(rawURL) {
		return "", nil, errors.New("Wrong " + a.Source + " URL: " + rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, errors.Wrap(err, "Wrong URL "+rawURL)
	}

	name := a.NameFunc()
	outTmpl := filepath.Join(a.StoragePath, name+".%(ext)s")
	args := []string{"--no-playlist", "-o", outTmpl}
	args = append(args, a.extraArgs...)
	args = append(args, rawURL)

	cmdapp.Log.Infof("Downloading %s media: %s", a.Source, rawURL)
	_, err = a.RunFunc(ctx, "yt-dlp", args...)
	if err != nil {
		a.removePartial(name)
		return "", nil, errors.New(toolCause(err))
	}

	file, err := a.findResult(name)
	if err != nil {
		a.removePartial(name)
		return "", nil, err
	}
	return file, &Provenance{Label: a.titleFunc(u)}, nil
}

func (a *URLAdapter) findResult(name string) (string, error) {
	if a.outExt != "" {
		file := filepath.Join(a.StoragePath, name+a.outExt)
		if _, err := os.Stat(file); err != nil {
			return "", errors.Wrap(err, "Can't find downloaded file "+file)
		}
		return file, nil
	}
	files, err := filepath.Glob(filepath.Join(a.StoragePath, name+".*"))
	if err != nil || len(files) == 0 {
		return "", errors.New("Can't find downloaded file " + name + ".*")
	}
	return files[0], nil
}

func (a *URLAdapter) removePartial(name string) {
	files, err := filepath.Glob(filepath.Join(a.StoragePath, name+"*"))
	if err != nil {
		cmdapp.Log.Warn(err)
		return
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			cmdapp.Log.Warnf("Can't remove partial file %s: %v", f, err)
		}
	}
}

//toolCause extracts a human readable cause from the tool diagnostic output
func toolCause(err error) string {
	res := ""
	for _, line := range strings.Split(err.Error(), "\n") {
		if i := strings.Index(line, "ERROR:"); i > -1 {
			res = strings.TrimSpace(line[i+len("ERROR:"):])
		}
	}
	if res == "" {
		return "Can't download media"
	}
	return res
}

func youtubeTitle(u *url.URL) string {
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	return lastPathFragment(u)
}

func lastPathFragment(u *url.URL) string {
	return path.Base(strings.TrimSuffix(u.Path, "/"))
}

package clean

import (
	"strings"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

type cleanerImpl struct {
	jobs []Cleaner
}

func newCleanerImpl(fileStorage string, patterns string) (*cleanerImpl, error) {
	c := cleanerImpl{}
	c.jobs = make([]Cleaner, 0)
	lfs, err := newFileCleaners(fileStorage, patterns)
	if err != nil {
		return nil, err
	}
	for _, lf := range lfs {
		c.jobs = append(c.jobs, lf)
	}
	if len(c.jobs) == 0 {
		return nil, errors.New("No clean patterns provided")
	}
	return &c, nil
}

func newFileCleaners(fileStorage string, patterns string) ([]*localFile, error) {
	res := make([]*localFile, 0)
	for _, p := range strings.Split(patterns, "\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lf, err := newLocalFile(fileStorage, p)
		if err != nil {
			return nil, err
		}
		res = append(res, lf)
	}
	return res, nil
}

func (c *cleanerImpl) Clean(ID string) error {
	failed := 0
	for _, job := range c.jobs {
		err := job.Clean(ID)
		if err != nil {
			cmdapp.Log.Error(err)
			failed++
		}
	}
	if failed == len(c.jobs) {
		return errors.New("All delete tasks failed")
	}
	return nil
}

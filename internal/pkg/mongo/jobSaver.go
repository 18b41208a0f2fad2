package mongo

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/pkg/errors"
)

//JobSaver creates new job records in mongo db
type JobSaver struct {
	SessionProvider *SessionProvider
}

//NewJobSaver creates JobSaver instance
func NewJobSaver(sessionProvider *SessionProvider) (*JobSaver, error) {
	f := JobSaver{SessionProvider: sessionProvider}
	return &f, nil
}

//Save inserts the job record. The record is created exactly once,
//a duplicate ID is an error
func (ss *JobSaver) Save(job *persistence.Job) error {
	cmdapp.Log.Infof("Saving job %s (%s)", job.ID, job.SourceType)

	c, ctx, cancel, err := newColl(ss.SessionProvider, jobTable)
	if err != nil {
		return err
	}
	defer cancel()

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	_, err = c.InsertOne(ctx, job)
	if err != nil {
		return errors.Wrap(err, "Can't insert job "+job.ID)
	}
	return nil
}

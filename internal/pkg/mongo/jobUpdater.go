package mongo

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

//JobUpdater does field level updates of job records.
//Concurrent updates of different fields or different jobs don't clobber each other
type JobUpdater struct {
	SessionProvider *SessionProvider
}

//NewJobUpdater creates JobUpdater instance
func NewJobUpdater(sessionProvider *SessionProvider) (*JobUpdater, error) {
	f := JobUpdater{SessionProvider: sessionProvider}
	return &f, nil
}

//Update sets the provided fields on the job record
func (ss *JobUpdater) Update(id string, fields map[string]interface{}) error {
	cmdapp.Log.Infof("Updating job %s: %d field(s)", id, len(fields))

	c, ctx, cancel, err := newColl(ss.SessionProvider, jobTable)
	if err != nil {
		return err
	}
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := c.UpdateOne(ctx, bson.M{"ID": sanitize(id)}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "Can't update job "+id)
	}
	if res.MatchedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

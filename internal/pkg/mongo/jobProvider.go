package mongo

import (
	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
)

//ErrJobNotFound indicates missing job record
var ErrJobNotFound = errors.New("Job not found")

//JobProvider retrieves job records from mongo db
type JobProvider struct {
	SessionProvider *SessionProvider
}

//NewJobProvider creates JobProvider instance
func NewJobProvider(sessionProvider *SessionProvider) (*JobProvider, error) {
	f := JobProvider{SessionProvider: sessionProvider}
	return &f, nil
}

//Get retrieves job by ID
func (ss *JobProvider) Get(id string) (*persistence.Job, error) {
	cmdapp.Log.Infof("Retrieving job %s", id)

	c, ctx, cancel, err := newColl(ss.SessionProvider, jobTable)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var res persistence.Job
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&res)
	if err == mgo.ErrNoDocuments {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't get job record")
	}
	return &res, nil
}

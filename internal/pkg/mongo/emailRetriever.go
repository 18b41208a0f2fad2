package mongo

import (
	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
)

//EmailRetriever returns the notification email of a job, empty if none was given
type EmailRetriever struct {
	SessionProvider *SessionProvider
}

//NewEmailRetriever creates EmailRetriever instance
func NewEmailRetriever(sessionProvider *SessionProvider) (*EmailRetriever, error) {
	f := EmailRetriever{SessionProvider: sessionProvider}
	return &f, nil
}

//Get returns email by job ID
func (ss *EmailRetriever) Get(id string) (string, error) {
	cmdapp.Log.Infof("Getting email by ID %s", id)

	c, ctx, cancel, err := newColl(ss.SessionProvider, jobTable)
	if err != nil {
		return "", err
	}
	defer cancel()

	var m persistence.Job
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&m)
	if err == mgo.ErrNoDocuments {
		return "", ErrJobNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "Can't get job record")
	}
	return m.Email, nil
}

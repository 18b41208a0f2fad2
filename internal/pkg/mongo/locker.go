package mongo

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//Locker guards against sending the same notification twice.
//Lock succeeds only for a record in the initial state
type Locker struct {
	SessionProvider *SessionProvider
}

//NewLocker creates Locker instance
func NewLocker(sessionProvider *SessionProvider) (*Locker, error) {
	f := Locker{SessionProvider: sessionProvider}
	return &f, nil
}

//Lock marks (id, lockKey) as taken
func (l *Locker) Lock(id string, lockKey string) error {
	cmdapp.Log.Infof("Locking %s(%s)", id, lockKey)

	c, ctx, cancel, err := newColl(l.SessionProvider, emailLockTable)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = c.UpdateOne(ctx, bson.M{"ID": sanitize(id), "key": lockKey},
		bson.M{"$setOnInsert": bson.M{"status": 0}},
		options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "Can't init lock record")
	}

	err = c.FindOneAndUpdate(ctx,
		bson.M{"ID": sanitize(id), "key": lockKey, "status": 0},
		bson.M{"$set": bson.M{"status": 1, "at": time.Now()}}).Err()
	if err == mgo.ErrNoDocuments {
		return errors.New("Already locked " + id + "(" + lockKey + ")")
	}
	return err
}

//UnLock sets the final value of the lock record.
//Zero value releases the lock for a retry
func (l *Locker) UnLock(id string, lockKey string, value *int) error {
	cmdapp.Log.Infof("Unlocking %s(%s)", id, lockKey)

	c, ctx, cancel, err := newColl(l.SessionProvider, emailLockTable)
	if err != nil {
		return err
	}
	defer cancel()

	err = c.FindOneAndUpdate(ctx,
		bson.M{"ID": sanitize(id), "key": lockKey, "status": 1},
		bson.M{"$set": bson.M{"status": *value}}).Err()
	if err == mgo.ErrNoDocuments {
		return errors.New("Not locked " + id + "(" + lockKey + ")")
	}
	return err
}

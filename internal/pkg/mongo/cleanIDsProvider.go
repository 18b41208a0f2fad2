package mongo

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/status"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

//CleanIDsProvider returns ids of terminal jobs not touched for the expiration period
type CleanIDsProvider struct {
	SessionProvider *SessionProvider
	expireDuration  time.Duration
}

//NewCleanIDsProvider creates CleanIDsProvider instance
func NewCleanIDsProvider(sessionProvider *SessionProvider, expireDuration time.Duration) (*CleanIDsProvider, error) {
	if expireDuration <= 0 {
		return nil, errors.New("Wrong expire duration")
	}
	return &CleanIDsProvider{SessionProvider: sessionProvider, expireDuration: expireDuration}, nil
}

//Get returns old job ids
func (p *CleanIDsProvider) Get() ([]string, error) {
	before := time.Now().Add(-p.expireDuration)
	cmdapp.Log.Infof("Getting terminal jobs older than %s", before.Format(time.RFC3339))

	c, ctx, cancel, err := newColl(p.SessionProvider, jobTable)
	if err != nil {
		return nil, err
	}
	defer cancel()

	cursor, err := c.Find(ctx, bson.M{
		"updatedAt": bson.M{"$lt": before},
		"status":    bson.M{"$in": []string{status.Name(status.Success), status.Name(status.Failed)}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't select old jobs")
	}
	defer cursor.Close(ctx)

	res := make([]string, 0)
	for cursor.Next(ctx) {
		var m bson.M
		if err = cursor.Decode(&m); err != nil {
			return nil, errors.Wrap(err, "Can't decode job record")
		}
		if id, ok := m["ID"].(string); ok {
			res = append(res, id)
		}
	}
	return res, cursor.Err()
}

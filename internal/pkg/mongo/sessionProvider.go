package mongo

import (
	"context"
	"strings"
	"sync"
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/utils"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//IndexData keeps index creation data
type IndexData struct {
	Table  string
	Field  string
	Unique bool
}

func newIndexData(table string, field string, unique bool) IndexData {
	return IndexData{Table: table, Field: field, Unique: unique}
}

//SessionProvider connects and provides client for mongo DB
type SessionProvider struct {
	client  *mgo.Client
	URL     string
	indexes []IndexData
	m       sync.Mutex // struct field mutex
}

//NewSessionProvider creates Mongo session provider
func NewSessionProvider() (*SessionProvider, error) {
	url := cmdapp.Config.GetString("mongo.url")
	if url == "" {
		return nil, errors.New("No Mongo url provided")
	}
	return &SessionProvider{URL: url, indexes: indexData}, nil
}

//Close closes mongo client
func (sp *SessionProvider) Close() {
	if sp.client != nil {
		ctx, cancel := mongoContext()
		defer cancel()
		cmdapp.LogIf(sp.client.Disconnect(ctx))
	}
}

//NewClient returns the cached mongo client, dialing on first use
func (sp *SessionProvider) NewClient() (*mgo.Client, error) {
	sp.m.Lock()
	defer sp.m.Unlock()

	if sp.client == nil {
		cmdapp.Log.Info("Dial mongo: " + utils.URLToLog(sp.URL))
		ctx, cancel := mongoContext()
		defer cancel()
		client, err := mgo.Connect(ctx, options.Client().ApplyURI(sp.URL))
		if err != nil {
			return nil, errors.Wrap(err, "Can't dial to mongo")
		}
		err = checkIndexes(client, sp.indexes)
		if err != nil {
			return nil, errors.Wrap(err, "Can't create indexes")
		}
		sp.client = client
	}
	return sp.client, nil
}

//Healthy checks the mongo connection
func (sp *SessionProvider) Healthy() error {
	client, err := sp.NewClient()
	if err != nil {
		return err
	}
	ctx, cancel := mongoContext()
	defer cancel()
	return client.Ping(ctx, nil)
}

func checkIndexes(c *mgo.Client, indexes []IndexData) error {
	for _, index := range indexes {
		err := checkIndex(c, index)
		if err != nil {
			return errors.Wrap(err, "Can't create index: "+index.Table+":"+index.Field)
		}
	}
	return nil
}

func checkIndex(c *mgo.Client, indexData IndexData) error {
	ctx, cancel := mongoContext()
	defer cancel()
	_, err := c.Database(store).Collection(indexData.Table).Indexes().CreateOne(ctx,
		mgo.IndexModel{
			Keys: bson.D{{Key: indexData.Field, Value: 1}},
			Options: options.Index().SetUnique(indexData.Unique).
				SetSparse(true).SetBackground(true),
		})
	return err
}

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func newColl(sp *SessionProvider, table string) (*mgo.Collection, context.Context, context.CancelFunc, error) {
	client, err := sp.NewClient()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := mongoContext()
	return client.Database(store).Collection(table), ctx, cancel, nil
}

//sanitize guards against query injection in values coming from the request
func sanitize(s string) string {
	return strings.ReplaceAll(s, "$", "")
}

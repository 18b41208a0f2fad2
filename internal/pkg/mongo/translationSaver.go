package mongo

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//TranslationSaver upserts one language entry of the job translations list.
//A job keeps at most one entry per language: saving a language again
//replaces its entry only, other languages stay untouched, so concurrent
//saves for different languages of the same job both land
type TranslationSaver struct {
	SessionProvider *SessionProvider
}

//NewTranslationSaver creates TranslationSaver instance
func NewTranslationSaver(sessionProvider *SessionProvider) (*TranslationSaver, error) {
	f := TranslationSaver{SessionProvider: sessionProvider}
	return &f, nil
}

//translationAppendDocs builds the guarded append. The filter matches the job
//only while no entry for the language exists, so two concurrent saves of the
//same language can never both append
func translationAppendDocs(id string, tr *persistence.Translation) (bson.M, bson.M) {
	filter := bson.M{"ID": sanitize(id),
		"translations.language": bson.M{"$ne": tr.Language}}
	update := bson.M{
		"$push": bson.M{"translations": tr},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	return filter, update
}

//translationReplaceDocs builds the in-place replace of the existing
//language entry via an array filter
func translationReplaceDocs(id string, tr *persistence.Translation) (bson.M, bson.M, *options.UpdateOptions) {
	filter := bson.M{"ID": sanitize(id)}
	update := bson.M{"$set": bson.M{
		"translations.$[t]": tr,
		"updatedAt":         time.Now(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"t.language": tr.Language}}})
	return filter, update, opts
}

//Save replaces or appends the language entry
func (ss *TranslationSaver) Save(id string, tr *persistence.Translation) error {
	cmdapp.Log.Infof("Saving translation %s for %s", tr.Language, id)

	c, ctx, cancel, err := newColl(ss.SessionProvider, jobTable)
	if err != nil {
		return err
	}
	defer cancel()

	if tr.TranslatedAt.IsZero() {
		tr.TranslatedAt = time.Now()
	}

	aFilter, aUpdate := translationAppendDocs(id, tr)
	res, err := c.UpdateOne(ctx, aFilter, aUpdate)
	if err != nil {
		return errors.Wrap(err, "Can't save translation for "+id)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// the language entry already exists (or there is no job), replace in place
	rFilter, rUpdate, rOpts := translationReplaceDocs(id, tr)
	res, err = c.UpdateOne(ctx, rFilter, rUpdate, rOpts)
	if err != nil {
		return errors.Wrap(err, "Can't save translation for "+id)
	}
	if res.MatchedCount == 0 {
		return ErrJobNotFound
	}
	return nil
}

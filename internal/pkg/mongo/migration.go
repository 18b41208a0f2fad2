package mongo

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

type legacyJob struct {
	ID                 string                          `bson:"ID"`
	TargetLang         string                          `bson:"targetLang"`
	TranslatedSegments []persistence.TranslatedSegment `bson:"translatedSegments"`
	Translations       []persistence.Translation       `bson:"translations"`
	UpdatedAt          time.Time                       `bson:"updatedAt"`
}

//MigrateLegacyTranslations rewrites records holding the old flat
//translation shape (top level targetLang + translatedSegments) into the
//tagged per language list. Runs once at service startup, already
//migrated records are not touched
func MigrateLegacyTranslations(sessionProvider *SessionProvider) error {
	c, ctx, cancel, err := newColl(sessionProvider, jobTable)
	if err != nil {
		return err
	}
	defer cancel()

	cursor, err := c.Find(ctx, bson.M{"translatedSegments": bson.M{"$exists": true}})
	if err != nil {
		return errors.Wrap(err, "Can't select legacy records")
	}
	defer cursor.Close(ctx)

	migrated := 0
	for cursor.Next(ctx) {
		var lj legacyJob
		if err = cursor.Decode(&lj); err != nil {
			return errors.Wrap(err, "Can't decode legacy record")
		}
		if err = migrateOne(sessionProvider, &lj); err != nil {
			return errors.Wrap(err, "Can't migrate "+lj.ID)
		}
		migrated++
	}
	if err = cursor.Err(); err != nil {
		return err
	}
	if migrated > 0 {
		cmdapp.Log.Infof("Migrated %d legacy translation record(s)", migrated)
	}
	return nil
}

func migrateOne(sessionProvider *SessionProvider, lj *legacyJob) error {
	c, ctx, cancel, err := newColl(sessionProvider, jobTable)
	if err != nil {
		return err
	}
	defer cancel()

	update := bson.M{"$unset": bson.M{"translatedSegments": ""}}
	if tr := newTaggedEntry(lj); tr != nil {
		update["$push"] = bson.M{"translations": tr}
	}
	_, err = c.UpdateOne(ctx, bson.M{"ID": lj.ID}, update)
	return err
}

//newTaggedEntry converts legacy fields to the tagged entry,
//nil if there is nothing to keep or the language already has one
func newTaggedEntry(lj *legacyJob) *persistence.Translation {
	if lj.TargetLang == "" || len(lj.TranslatedSegments) == 0 {
		return nil
	}
	for _, tr := range lj.Translations {
		if tr.Language == lj.TargetLang {
			return nil
		}
	}
	at := lj.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return &persistence.Translation{Language: lj.TargetLang,
		Segments: lj.TranslatedSegments, TranslatedAt: at}
}

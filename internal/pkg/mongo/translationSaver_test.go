package mongo

import (
	"testing"

	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTranslationAppend_GuardsLanguage(t *testing.T) {
	tr := &persistence.Translation{Language: "fr"}
	filter, update := translationAppendDocs("job1", tr)
	assert.Equal(t, "job1", filter["ID"])
	assert.Equal(t, bson.M{"$ne": "fr"}, filter["translations.language"])
	assert.Equal(t, bson.M{"translations": tr}, update["$push"])
}

func TestTranslationReplace_TargetsEntry(t *testing.T) {
	tr := &persistence.Translation{Language: "fr"}
	filter, update, opts := translationReplaceDocs("job1", tr)
	assert.Equal(t, bson.M{"ID": "job1"}, filter)
	set := update["$set"].(bson.M)
	assert.Equal(t, tr, set["translations.$[t]"])
	assert.NotNil(t, opts.ArrayFilters)
	assert.Equal(t, []interface{}{bson.M{"t.language": "fr"}}, opts.ArrayFilters.Filters)
}

func TestTranslationDocs_Sanitized(t *testing.T) {
	tr := &persistence.Translation{Language: "fr"}
	filter, _ := translationAppendDocs("$where: 1", tr)
	assert.Equal(t, "where: 1", filter["ID"])
	filter, _, _ = translationReplaceDocs("$where: 1", tr)
	assert.Equal(t, "where: 1", filter["ID"])
}

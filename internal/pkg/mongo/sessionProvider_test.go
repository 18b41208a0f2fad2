package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "id1", sanitize("id1"))
	assert.Equal(t, "where: 1", sanitize("$where: 1"))
}

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "queued", Name(Queued))
	assert.Equal(t, "processing", Name(Processing))
	assert.Equal(t, "success", Name(Success))
	assert.Equal(t, "failed", Name(Failed))
	assert.Equal(t, "waiting", Name(Waiting))
}

func TestFrom(t *testing.T) {
	assert.Equal(t, Queued, From("queued"))
	assert.Equal(t, Waiting, From("waiting"))
	assert.Equal(t, Status(0), From("olia"))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(Success))
	assert.True(t, IsTerminal(Failed))
	assert.False(t, IsTerminal(Queued))
	assert.False(t, IsTerminal(Processing))
	assert.False(t, IsTerminal(Waiting))
}

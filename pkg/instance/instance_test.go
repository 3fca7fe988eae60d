package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIDPrecedence(t *testing.T) {
	t.Setenv("PROYEC_INSTANCE_ID", "")
	t.Setenv("DYNO", "")
	t.Setenv("HOSTNAME", "")
	assert.Equal(t, "local", GetID())

	t.Setenv("HOSTNAME", "box-1")
	assert.Equal(t, "box-1", GetID())

	t.Setenv("DYNO", "web.2")
	assert.Equal(t, "web.2", GetID())

	t.Setenv("PROYEC_INSTANCE_ID", " api-a ")
	assert.Equal(t, "api-a", GetID())
}

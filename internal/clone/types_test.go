package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_Pretty(t *testing.T) {
	raw := `[{"id":"clone-alpha","message":"starting the build for the release branch"},{"id":"clone-beta","message":"running the integration suite"}]`
	c := Collection{Raw: []byte(raw)}

	out := c.Pretty()
	assert.JSONEq(t, raw, out)
	assert.Contains(t, out, "\n  ")
	assert.NotContains(t, out[len(out)-1:], "\n")
	assert.Equal(t, raw, c.String())
}

func TestCollection_PrettyNonJSON(t *testing.T) {
	c := Collection{Raw: []byte("plain text\nlines")}
	assert.Equal(t, "plain text\nlines", c.Pretty())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode[Fact](Collection{Raw: []byte(`{"not":"a list"}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode collection")
}

func TestAssignment(t *testing.T) {
	a := Assigned("deploy")
	task, ok := a.Get()
	assert.True(t, ok)
	assert.Equal(t, "deploy", task)
	assert.Equal(t, "deploy", a.String())

	task, ok = NoTask.Get()
	assert.False(t, ok)
	assert.Empty(t, task)
	assert.Equal(t, "(no task)", NoTask.String())
}

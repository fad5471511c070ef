package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetAndMatch(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("s3cret-admin-pass"))
	assert.NotEmpty(t, p.Hash)
	assert.NotEqual(t, "s3cret-admin-pass", p.Hash)

	match, err := p.Matches("s3cret-admin-pass")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = p.Matches("wrong-pass")
	require.NoError(t, err)
	assert.False(t, match)
}

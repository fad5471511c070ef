package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipientKind(t *testing.T) {
	kind, err := ParseRecipientKind("client")
	require.NoError(t, err)
	assert.Equal(t, RecipientClient, kind)

	kind, err = ParseRecipientKind("Maalem")
	require.NoError(t, err)
	assert.Equal(t, RecipientMaalem, kind)

	// The kind set is closed: anything else is rejected at parse time.
	for _, bad := range []string{"", "admin", "clientprofile", "maalem_profile", "user"} {
		_, err := ParseRecipientKind(bad)
		assert.Errorf(t, err, "kind %q should be rejected", bad)
	}
}

func TestRecipientKindValid(t *testing.T) {
	assert.True(t, RecipientClient.Valid())
	assert.True(t, RecipientMaalem.Valid())
	assert.False(t, RecipientKind("admin").Valid())
	assert.False(t, RecipientKind("").Valid())
}

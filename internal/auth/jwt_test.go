package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokenString, err := GenerateAdminToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	adminID, err := ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), adminID)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTamperedToken(t *testing.T) {
	tokenString, err := GenerateAdminToken(7)
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

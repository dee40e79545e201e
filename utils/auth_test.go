package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-123", "mecanico@oficinaplus.com.br")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, email, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "mecanico@oficinaplus.com.br", email)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, _, err := ParseAccessToken("not.a.jwt")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateAccessToken("user-123", "x@y.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, _, err = ParseAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateAccessToken("user-123", "x@y.com")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-forte", hash)

	assert.True(t, CheckPassword("s3nha-forte", hash))
	assert.False(t, CheckPassword("outra-senha", hash))
}

func TestPINHashing(t *testing.T) {
	hash, err := HashPIN("1234")
	require.NoError(t, err)

	assert.True(t, CheckPIN("1234", hash))
	assert.False(t, CheckPIN("4321", hash))
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

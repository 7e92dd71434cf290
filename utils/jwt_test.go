package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facteam/blog-api/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "unit-test-secret"})

	token, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "unit-test-secret"})

	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "secret-one"})
	token, err := GenerateToken(7)
	require.NoError(t, err)

	config.SetForTesting(config.AppConfig{JWTSecret: "secret-two"})
	_, err = ParseToken(token)
	assert.Error(t, err)
}

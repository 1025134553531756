package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJWTSecretRejectsEmpty(t *testing.T) {
	assert.Error(t, InitJWTSecret(""))
}

func TestGenerateAndVerifyRoundTrip(t *testing.T) {
	require.NoError(t, InitJWTSecret("test-secret-do-not-use"))

	token, err := GenerateJWT("user-1", "grace@acme.test", "org-1", "ADMIN")
	require.NoError(t, err)

	parsed, err := VerifyJWT(token)
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "org-1", claims["org_id"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	require.NoError(t, InitJWTSecret("test-secret-do-not-use"))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-1"})
	signed, err := forged.SignedString([]byte("a-different-secret"))
	require.NoError(t, err)

	_, err = VerifyJWT(signed)
	assert.Error(t, err)
}

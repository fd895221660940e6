package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	TokenSecretKey = "test-secret"

	token, err := GenerateToken(RoleCoach, "org-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCoach, claims.Role)
	assert.Equal(t, "org-1", claims.OrganizationID)
}

func TestVerifyToken_Expired(t *testing.T) {
	TokenSecretKey = "test-secret"

	token, err := GenerateToken(RoleAdmin, "", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	TokenSecretKey = "test-secret"
	token, err := GenerateToken(RoleAthlete, "", time.Hour)
	require.NoError(t, err)

	TokenSecretKey = "other-secret"
	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestIsValidToken(t *testing.T) {
	TokenSecretKey = "test-secret"

	token, err := GenerateToken(RoleAdmin, "", time.Hour)
	require.NoError(t, err)

	role, ok := IsValidToken(token)
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = IsValidToken("garbage")
	assert.False(t, ok)
}

package jwt

import (
	"testing"
	"time"

	"unihealth-admin/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(secret string, access time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  access,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAccessToken_RoundTripsClaims(t *testing.T) {
	svc := newTestService("secret", time.Minute)
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "ops@unihealth.test", "clinic_admin", "login-1")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "ops@unihealth.test", claims.Email)
	require.Equal(t, "clinic_admin", claims.Role)
	require.Equal(t, AccessToken, claims.TokenType)
	require.Equal(t, tokenID, claims.TokenID)
	require.Equal(t, "login-1", claims.SessionID)
}

func TestGenerateRefreshToken_HasRefreshType(t *testing.T) {
	svc := newTestService("secret", time.Minute)

	token, _, err := svc.GenerateRefreshToken(uuid.New(), "ops@unihealth.test", "admin", "login-1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, RefreshToken, claims.TokenType)
	require.Equal(t, "login-1", claims.SessionID)
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	token, _, err := newTestService("one", time.Minute).GenerateAccessToken(uuid.New(), "a@b.test", "admin", "")
	require.NoError(t, err)

	_, err = newTestService("two", time.Minute).ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc := newTestService("secret", -time.Minute)

	token, _, err := svc.GenerateAccessToken(uuid.New(), "a@b.test", "admin", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

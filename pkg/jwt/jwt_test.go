package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "test-issuer", 15, 168)
}

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	tm := newManager()

	token, err := tm.GenerateAccessToken(42, "user@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestTokenManager_RefreshTokenRoundTrip(t *testing.T) {
	tm := newManager()

	token, err := tm.GenerateRefreshToken(42, "user@example.com")
	assert.NoError(t, err)

	claims, err := tm.ValidateRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestTokenManager_SecretsNotInterchangeable(t *testing.T) {
	tm := newManager()

	accessToken, err := tm.GenerateAccessToken(1, "user@example.com")
	assert.NoError(t, err)
	refreshToken, err := tm.GenerateRefreshToken(1, "user@example.com")
	assert.NoError(t, err)

	_, err = tm.ValidateRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = tm.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestTokenManager_InvalidToken(t *testing.T) {
	tm := newManager()

	_, err := tm.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := newManager()
	other := NewTokenManager("other-secret", "other-refresh", "test-issuer", 15, 168)

	token, err := tm.GenerateAccessToken(1, "user@example.com")
	assert.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := &TokenManager{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		issuer:        "test-issuer",
		accessTTL:     -time.Minute,
		refreshTTL:    time.Hour,
	}

	token, err := tm.GenerateAccessToken(1, "user@example.com")
	assert.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_TTLAccessors(t *testing.T) {
	tm := newManager()
	assert.Equal(t, 15*time.Minute, tm.AccessTTL())
	assert.Equal(t, 168*time.Hour, tm.RefreshTTL())
}

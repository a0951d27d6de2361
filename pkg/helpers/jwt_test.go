package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	token, exp, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestJWTSecretsAreSeparate(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, _, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	// an access token must not validate as a refresh token
	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	m1 := NewJWTManager("secret-one", "secret-one", time.Minute, time.Hour)
	m2 := NewJWTManager("secret-two", "secret-two", time.Minute, time.Hour)

	token, _, err := m1.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = m2.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestJWTExpiredRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	token, _, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	const secret = "test-secret"

	tok, err := NewAccessToken(secret, 42, "RENTER", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "RENTER", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("right", 1, "OWNER", 5)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokens(t *testing.T) {
	t.Run("raw tokens are unique and long", func(t *testing.T) {
		a, err := NewRefreshToken(30)
		require.NoError(t, err)
		b, err := NewRefreshToken(30)
		require.NoError(t, err)
		assert.NotEqual(t, a.Raw, b.Raw)
		assert.Len(t, a.Raw, 96)
	})

	t.Run("hash is deterministic and never the raw value", func(t *testing.T) {
		tok, err := NewRefreshToken(30)
		require.NoError(t, err)
		h1 := HashRefreshRaw(tok.Raw)
		h2 := HashRefreshRaw(tok.Raw)
		assert.Equal(t, h1, h2)
		assert.NotEqual(t, tok.Raw, h1)
		assert.Len(t, h1, 64) // sha256 hex
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "S3cret"))
}

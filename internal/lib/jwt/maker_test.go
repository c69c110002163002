package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour)

	t.Run("roundtrip preserves claims", func(t *testing.T) {
		token, err := maker.GenerateToken("testuser", "admin", "uid-1")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "testuser", claims.Username)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "uid-1", claims.UserUID)
		assert.True(t, claims.ExpiresAt.After(time.Now()))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTMaker("test-secret", -time.Minute)
		token, err := expired.GenerateToken("testuser", "user", "uid-1")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		foreign := NewJWTMaker("other-secret", time.Hour)
		token, err := foreign.GenerateToken("testuser", "user", "uid-1")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := maker.ParseToken("garbage")
		assert.Error(t, err)
	})
}

package utils

import (
	"testing"
	"time"

	"hourgym/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims, key []byte, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestExtractIDFromToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid token yields the subject", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": "renter-1", "exp": exp},
			[]byte("test-secret"), jwt.SigningMethodHS256)
		sub, err := ExtractIDFromToken(tok)
		require.NoError(t, err)
		assert.Equal(t, "renter-1", sub)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": "renter-1", "exp": exp},
			[]byte("other-secret"), jwt.SigningMethodHS256)
		_, err := ExtractIDFromToken(tok)
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"sub": "renter-1", "exp": time.Now().Add(-time.Hour).Unix()},
			[]byte("test-secret"), jwt.SigningMethodHS256)
		_, err := ExtractIDFromToken(tok)
		assert.Error(t, err)
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"exp": exp},
			[]byte("test-secret"), jwt.SigningMethodHS256)
		_, err := ExtractIDFromToken(tok)
		assert.Error(t, err)
	})
}

package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(string(hash), "secret")
	svc.now = func() time.Time { return time.Now().Truncate(time.Second) }

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("nope")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("issues a dashboard token", func(t *testing.T) {
		signed, err := svc.Login("hunter2")
		require.NoError(t, err)

		var claims jwt.RegisteredClaims
		_, err = jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, TokenSubject, claims.Subject)
		assert.Equal(t, TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

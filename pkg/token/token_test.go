package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

func signToken(t *testing.T, userId, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserId: userId,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParse(t *testing.T) {
	t.Run("valid token yields claims", func(t *testing.T) {
		raw := signToken(t, "u1", "vendor", time.Now().Add(time.Hour))

		claims, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserId)
		assert.Equal(t, "vendor", claims.Role)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorIs(t, err, errcode.ErrTokenMissing)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := Parse("not.a.jwt")
		assert.ErrorIs(t, err, errcode.ErrTokenInvalid)
	})
}

func TestValidate(t *testing.T) {
	now := time.Now()

	t.Run("live session accepted", func(t *testing.T) {
		raw := signToken(t, "u1", "customer", now.Add(time.Hour))
		_, err := Validate(raw, now)
		assert.NoError(t, err)
	})

	t.Run("expired session rejected", func(t *testing.T) {
		raw := signToken(t, "u1", "customer", now.Add(-time.Minute))
		_, err := Validate(raw, now)
		assert.ErrorIs(t, err, errcode.ErrTokenExpired)
	})
}

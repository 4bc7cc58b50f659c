// Package token inspects the bearer token issued by the auth service.
// The client never verifies signatures (it has no secret); it only reads
// claims to know who it is acting as and whether the session is still live.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DHEENA0007/squares-messaging/pkg/errcode"
)

// Claims represents the JWT claims the messaging client cares about
type Claims struct {
	UserId string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Parse decodes a token without signature verification
func Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errcode.ErrTokenMissing
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}

	if claims.UserId == "" {
		return nil, errcode.ErrTokenInvalid
	}

	return claims, nil
}

// Expired reports whether the token's expiry has passed
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}

// Validate parses the token and rejects an already expired session
func Validate(tokenString string, now time.Time) (*Claims, error) {
	claims, err := Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Expired(now) {
		return nil, errcode.ErrTokenExpired
	}
	return claims, nil
}

// Package auth resolves caller identity. Callers present a bearer token
// minted by the wallet frontend with the shared secret; the token subject
// is the wallet principal every storage operation is keyed by.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned when no valid caller identity is
// available. Operations that need a caller abort on it with no state
// change.
var ErrUnauthenticated = errors.New("no caller identity")

// DefaultTTL is the lifetime of tokens issued by Issue.
const DefaultTTL = 24 * time.Hour

// Manager issues and verifies caller tokens.
type Manager struct {
	secret []byte
}

// New creates a manager around the shared HS256 secret.
func New(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue mints a token for principal. Used by tests and tooling; in
// production the wallet frontend mints tokens with the same secret.
func (m *Manager) Issue(principal string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   principal,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token and returns the principal it identifies. Any
// failure collapses to ErrUnauthenticated.
func (m *Manager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		})
	if err != nil || !token.Valid {
		return "", ErrUnauthenticated
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}

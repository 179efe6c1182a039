package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tokens converts session IDs to client-facing tokens and back.
// With a signing key, tokens are HS256 JWTs carrying the ID and expiry;
// without one, the bare UUID is the token.
type Tokens struct {
	key []byte
	now func() time.Time
}

// NewTokens returns a token codec. An empty key disables signing.
func NewTokens(signingKey string) *Tokens {
	return &Tokens{key: []byte(strings.TrimSpace(signingKey)), now: time.Now}
}

// Signed reports whether tokens are signed.
func (t *Tokens) Signed() bool { return len(t.key) > 0 }

// NewID returns a fresh session ID.
func NewID() string { return uuid.NewString() }

// Issue returns the client token for rec.
func (t *Tokens) Issue(rec Record) (string, error) {
	if !t.Signed() {
		return rec.ID, nil
	}
	claims := jwt.RegisteredClaims{
		ID:       rec.ID,
		IssuedAt: jwt.NewNumericDate(rec.CreatedAt),
	}
	if !rec.ExpiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(rec.ExpiresAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Parse returns the session ID carried by token.
func (t *Tokens) Parse(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	if !t.Signed() {
		id, err := uuid.Parse(token)
		if err != nil {
			return "", ErrInvalidToken
		}
		return id.String(), nil
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

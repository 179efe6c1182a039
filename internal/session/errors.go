package session

import "errors"

var (
	// ErrNotFound is returned when a session is unknown or expired.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidToken is returned for malformed, forged or expired session tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpired is returned by Save for a record whose expiry has already passed.
	ErrExpired = errors.New("session expired before save")
)

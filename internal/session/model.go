package session

import "time"

// Record is one polished result bound to a session ID.
type Record struct {
	ID           string
	PolishedText string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the record is no longer readable at now.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

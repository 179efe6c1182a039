package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore implements Store using Postgres. Expired rows are ignored on read
// and removed by Sweep.
type PGStore struct {
	DB  *sql.DB
	now func() time.Time
}

// NewPGStore constructs a PGStore over an open database.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db, now: time.Now}
}

// Kind implements Store.
func (s *PGStore) Kind() string { return "postgres" }

// Save upserts a session row.
func (s *PGStore) Save(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO cv_sessions (id, polished_text, created_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET polished_text = EXCLUDED.polished_text, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at`
	_, err := s.DB.ExecContext(ctx, query, rec.ID, rec.PolishedText, rec.CreatedAt, rec.ExpiresAt)
	return err
}

// Load returns an unexpired session row.
func (s *PGStore) Load(ctx context.Context, id string) (Record, error) {
	const query = `
SELECT id, polished_text, created_at, expires_at
FROM cv_sessions
WHERE id = $1 AND expires_at > $2
LIMIT 1`
	var rec Record
	err := s.DB.QueryRowContext(ctx, query, id, s.now().UTC()).Scan(
		&rec.ID,
		&rec.PolishedText,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// Sweep deletes rows expired at now.
func (s *PGStore) Sweep(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM cv_sessions WHERE expires_at <= $1`
	res, err := s.DB.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Ping implements Pinger.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

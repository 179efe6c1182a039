package session

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPGStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPGStore(db), mock
}

func TestPGStoreSave(t *testing.T) {
	s, mock := newPGStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{ID: NewID(), PolishedText: "cv", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cv_sessions")).
		WithArgs(rec.ID, rec.PolishedText, rec.CreatedAt, rec.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreLoad(t *testing.T) {
	s, mock := newPGStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	id := NewID()

	rows := sqlmock.NewRows([]string{"id", "polished_text", "created_at", "expires_at"}).
		AddRow(id, "cv text", now, now.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, polished_text, created_at, expires_at")).
		WithArgs(id, now).
		WillReturnRows(rows)

	rec, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "cv text", rec.PolishedText)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreLoadNotFound(t *testing.T) {
	s, mock := newPGStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM cv_sessions")).
		WillReturnError(sql.ErrNoRows)

	_, err := s.Load(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGStoreSweep(t *testing.T) {
	s, mock := newPGStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cv_sessions WHERE expires_at <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

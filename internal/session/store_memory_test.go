package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveLoad(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	rec := Record{ID: "a", PolishedText: "text", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Record{ID: "old", ExpiresAt: now.Add(time.Second)}))
	require.NoError(t, s.Save(ctx, Record{ID: "new", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(2 * time.Second)
	_, err := s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, s.Len())

	_, err = s.Load(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, Record{ID: "a"}), context.Canceled)
	_, err := s.Load(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreConcurrentSessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = NewID()
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = s.Save(ctx, Record{ID: id, PolishedText: "cv-" + id, ExpiresAt: exp})
		}(ids[i])
	}
	wg.Wait()

	for _, id := range ids {
		rec, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "cv-"+id, rec.PolishedText)
	}
}

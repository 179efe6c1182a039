package session

import (
	"context"
	"time"
)

// Store persists polished results keyed by session ID until they expire.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id string) (Record, error)
	Kind() string
}

// Sweeper is implemented by stores that need expired records removed explicitly.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

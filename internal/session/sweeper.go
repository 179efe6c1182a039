package session

import (
	"context"
	"time"

	"cv-polisher/internal/shared/metrics"
	"cv-polisher/internal/shared/telemetry"
)

// RunSweeper removes expired records from store every interval until ctx is
// done. Stores that expire records on their own are left alone.
func RunSweeper(ctx context.Context, store Store, interval time.Duration) error {
	sw, ok := store.(Sweeper)
	if !ok || interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := sw.Sweep(ctx, now)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				telemetry.Warn("session.sweep_failed", map[string]any{"store": store.Kind(), "error": err})
				continue
			}
			metrics.AddSwept(n)
			if n > 0 {
				telemetry.Debug("session.swept", map[string]any{"store": store.Kind(), "removed": n})
			}
		}
	}
}

package llm

import (
	"context"
	"errors"
	"time"

	"cv-polisher/internal/shared/metrics"
	"cv-polisher/internal/shared/telemetry"
)

const (
	defaultRetryBaseDelay = 500 * time.Millisecond
	maxRetryDelay         = 8 * time.Second
)

// RetryPolicy bounds attempts against a Client.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Retrying wraps base with bounded exponential backoff. Only retryable
// CompletionErrors are retried; the last error is returned with Attempts set.
type Retrying struct {
	base   Client
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrying returns base wrapped with policy. A nil base yields nil.
func NewRetrying(base Client, policy RetryPolicy) *Retrying {
	if base == nil {
		return nil
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = defaultRetryBaseDelay
	}
	return &Retrying{base: base, policy: policy, sleep: sleepCtx}
}

// Provider implements Named.
func (r *Retrying) Provider() string { return ProviderName(r.base) }

// Complete runs the prompt, retrying transient failures.
func (r *Retrying) Complete(ctx context.Context, prompt string) (string, error) {
	provider := r.Provider()
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		start := time.Now()
		text, err := r.base.Complete(ctx, prompt)
		if err == nil {
			metrics.ObserveCompletion(provider, "success", time.Since(start))
			return text, nil
		}
		ce, ok := AsCompletionError(err)
		if !ok {
			ce = TransportError(provider, err)
		}
		metrics.ObserveCompletion(provider, string(ce.Kind), time.Since(start))
		ce.Attempts = attempt
		lastErr = ce

		if !ce.Retryable() || attempt == r.policy.MaxAttempts {
			break
		}
		delay := backoff(r.policy.BaseDelay, attempt)
		telemetry.Warn("completion.retry", map[string]any{
			"request_id": telemetry.RequestID(ctx),
			"provider":   provider,
			"attempt":    attempt,
			"kind":       string(ce.Kind),
			"status":     ce.StatusCode,
			"delay_ms":   delay.Milliseconds(),
		})
		if err := r.sleep(ctx, delay); err != nil {
			return "", &CompletionError{Kind: KindTimeout, Provider: provider, Attempts: attempt, Err: errors.Join(err, ce)}
		}
	}
	return "", lastErr
}

func backoff(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d <= 0 || d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package llm

import (
	"context"
	"strings"
)

// Client completes a single prompt against a text model.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Named is implemented by clients that report a provider label for metrics and logs.
type Named interface {
	Provider() string
}

// ProviderName returns the provider label for c, or "unknown".
func ProviderName(c Client) string {
	if n, ok := c.(Named); ok {
		if name := strings.TrimSpace(n.Provider()); name != "" {
			return name
		}
	}
	return "unknown"
}

// PlaceholderClient is used when no provider credential is configured.
// Every call fails with a non-retryable CompletionError.
type PlaceholderClient struct{}

// Complete always fails.
func (PlaceholderClient) Complete(context.Context, string) (string, error) {
	return "", &CompletionError{Kind: KindConfig, Provider: "placeholder", Message: "completion provider not configured"}
}

// Provider implements Named.
func (PlaceholderClient) Provider() string { return "placeholder" }

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies why a completion failed.
type Kind string

const (
	KindTransport Kind = "transport"
	KindTimeout   Kind = "timeout"
	KindStatus    Kind = "status"
	KindShape     Kind = "shape"
	KindConfig    Kind = "config"
)

// CompletionError is returned by every Client implementation in this module.
type CompletionError struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Message    string
	Attempts   int
	Err        error
}

func (e *CompletionError) Error() string {
	var b strings.Builder
	b.WriteString("completion")
	if e.Kind != KindStatus {
		b.WriteString(" ")
		b.WriteString(string(e.Kind))
	}
	if e.Provider != "" {
		b.WriteString(" (")
		b.WriteString(e.Provider)
		b.WriteString(")")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " http %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " after %d attempts", e.Attempts)
	}
	return b.String()
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed.
func (e *CompletionError) Retryable() bool {
	switch e.Kind {
	case KindTransport, KindTimeout:
		return true
	case KindStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// AsCompletionError returns err as a *CompletionError when it is one.
func AsCompletionError(err error) (*CompletionError, bool) {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// TransportError classifies a failed round trip as timeout or transport.
func TransportError(provider string, err error) *CompletionError {
	kind := KindTransport
	if isTimeout(err) {
		kind = KindTimeout
	}
	return &CompletionError{Kind: kind, Provider: provider, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "client.timeout")
}

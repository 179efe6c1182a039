package health

import (
	"context"
	"time"

	"cv-polisher/internal/session"
)

const pingTimeout = 2 * time.Second

// Status is the health payload.
type Status struct {
	OK           bool   `json:"ok"`
	SessionStore string `json:"session_store"`
	Error        string `json:"error,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	store session.Store
}

// NewService constructs a health service over the session store.
func NewService(store session.Store) *Service {
	return &Service{store: store}
}

// Status pings the session store when it supports pinging.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true}
	if s.store == nil {
		return st
	}
	st.SessionStore = s.store.Kind()
	if p, ok := s.store.(session.Pinger); ok {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			st.OK = false
			st.Error = err.Error()
		}
	}
	return st
}

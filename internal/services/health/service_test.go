package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-polisher/internal/session"
)

type downStore struct{ *session.MemoryStore }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestStatusMemoryStore(t *testing.T) {
	st := NewService(session.NewMemoryStore()).Status(context.Background())
	assert.True(t, st.OK)
	assert.Equal(t, "memory", st.SessionStore)
}

func TestStatusReportsPingFailure(t *testing.T) {
	st := NewService(downStore{session.NewMemoryStore()}).Status(context.Background())
	assert.False(t, st.OK)
	assert.Equal(t, "connection refused", st.Error)
}

package polish

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-polisher/internal/extract"
	"cv-polisher/internal/llm"
	"cv-polisher/internal/session"
)

func janeFields() ResumeFields {
	return ResumeFields{Name: "Jane Doe", Education: "BS CS", Experience: "2y dev", Skills: "Go"}
}

func TestServicePolishStoresSession(t *testing.T) {
	store := session.NewMemoryStore()
	now := time.Now().UTC().Truncate(time.Second)
	svc := newTestService(fixedClient("POLISHED"))
	svc.Sessions = store
	svc.SessionTTL = 10 * time.Minute
	svc.now = func() time.Time { return now }

	res, err := svc.Polish(context.Background(), janeFields())
	require.NoError(t, err)

	assert.Equal(t, "POLISHED", res.PolishedText)
	assert.Equal(t, now.Add(10*time.Minute), res.ExpiresAt)
	rec, err := store.Load(context.Background(), res.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "POLISHED", rec.PolishedText)
	assert.Equal(t, now, rec.CreatedAt)
}

func TestServicePolishSanitizesBeforePrompting(t *testing.T) {
	var prompt string
	client := &countingClient{fn: func(p string) (string, error) {
		prompt = p
		return "ok", nil
	}}
	svc := newTestService(client)

	fields := janeFields()
	fields.Name = "  Jane\x00 Doe\r\n"
	_, err := svc.Polish(context.Background(), fields)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Name: Jane Doe\n")
	assert.NotContains(t, prompt, "\x00")
	assert.NotContains(t, prompt, "\r")
}

func TestServicePolishValidationSkipsCompletion(t *testing.T) {
	client := fixedClient("x")
	svc := newTestService(client)
	svc.MaxFieldLength = 10

	fields := janeFields()
	fields.Experience = strings.Repeat("a", 11)
	_, err := svc.Polish(context.Background(), fields)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, FieldError{Field: "experience", Issue: "max", Limit: 10}, verr.Fields[0])
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestServicePolishTimeoutIsTyped(t *testing.T) {
	var calls atomic.Int32
	blocking := llm.ClientFunc(func(ctx context.Context, prompt string) (string, error) {
		calls.Add(1)
		<-ctx.Done()
		return "", ctx.Err()
	})
	svc := newTestService(blocking)
	svc.Timeout = 20 * time.Millisecond

	_, err := svc.Polish(context.Background(), janeFields())

	ce, ok := llm.AsCompletionError(err)
	require.True(t, ok, "expected CompletionError, got %v", err)
	assert.Equal(t, llm.KindTimeout, ce.Kind)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, int32(1), calls.Load())
}

func TestServicePolishKeepsTypedCompletionError(t *testing.T) {
	upstream := &llm.CompletionError{Kind: llm.KindStatus, StatusCode: 401, Message: "bad key"}
	client := &countingClient{fn: func(string) (string, error) { return "", upstream }}
	svc := newTestService(client)

	_, err := svc.Polish(context.Background(), janeFields())

	ce, ok := llm.AsCompletionError(err)
	require.True(t, ok)
	assert.Same(t, upstream, ce)
}

type failingStore struct{ session.Store }

func (failingStore) Save(context.Context, session.Record) error { return errors.New("disk full") }
func (failingStore) Load(context.Context, string) (session.Record, error) {
	return session.Record{}, errors.New("connection refused")
}
func (failingStore) Kind() string { return "failing" }

func TestServiceStoreFailures(t *testing.T) {
	svc := newTestService(fixedClient("ok"))
	svc.Sessions = failingStore{}

	_, err := svc.Polish(context.Background(), janeFields())
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "save", serr.Op)

	_, err = svc.Download(context.Background(), session.NewID())
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "load", serr.Op)
}

func TestServiceDownloadRoundTrip(t *testing.T) {
	svc := newTestService(fixedClient("Jane Doe\nSenior Engineer"))

	res, err := svc.Polish(context.Background(), janeFields())
	require.NoError(t, err)

	doc, err := svc.Download(context.Background(), res.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, SourceSession, doc.Source)
	assert.Equal(t, DownloadFilename, doc.Filename)

	text, err := extract.PDFText(context.Background(), doc.Data)
	require.NoError(t, err)
	assertLinesInOrder(t, text, []string{"Jane Doe", "Senior Engineer"})
}

func TestServiceDownloadMissingPolicy(t *testing.T) {
	svc := newTestService(fixedClient("x"))

	doc, err := svc.Download(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, SourcePlaceholder, doc.Source)

	svc.Placeholder = "Nothing here yet"
	doc, err = svc.Download(context.Background(), "")
	require.NoError(t, err)
	text, err := extract.PDFText(context.Background(), doc.Data)
	require.NoError(t, err)
	assert.Contains(t, text, "Nothing here yet")

	svc.MissingPolicy = MissingError
	_, err = svc.Download(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestServiceDownloadExpiredSession(t *testing.T) {
	store := session.NewMemoryStore()
	svc := newTestService(fixedClient("x"))
	svc.Sessions = store
	past := time.Now().UTC().Add(-time.Hour)
	svc.now = func() time.Time { return past }
	svc.SessionTTL = time.Minute

	res, err := svc.Polish(context.Background(), janeFields())
	require.NoError(t, err)

	svc.MissingPolicy = MissingError
	_, err = svc.Download(context.Background(), res.SessionToken)
	assert.ErrorIs(t, err, ErrNoResult)
}

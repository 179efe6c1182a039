package polish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"cv-polisher/internal/llm"
	"cv-polisher/internal/session"
	"cv-polisher/internal/shared/metrics"
	"cv-polisher/internal/shared/telemetry"
	"cv-polisher/internal/shared/util"
)

const (
	defaultMaxFieldLength = 5000
	defaultSessionTTL     = 30 * time.Minute
)

// Renderer turns text into a document written to w.
type Renderer interface {
	Render(w io.Writer, text string) error
}

// Service runs the polish and download operations.
type Service struct {
	LLM            llm.Client
	Sessions       session.Store
	Tokens         *session.Tokens
	Renderer       Renderer
	SessionTTL     time.Duration
	Timeout        time.Duration
	MaxFieldLength int
	MissingPolicy  MissingPolicy
	Placeholder    string

	now func() time.Time
}

// Polish validates fields, completes the prompt and stores the result under a new session.
func (s *Service) Polish(ctx context.Context, fields ResumeFields) (Result, error) {
	fields = fields.Sanitized()
	if err := fields.Validate(s.maxFieldLength()); err != nil {
		metrics.IncPolish(metrics.OutcomeValidation)
		return Result{}, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := s.clock()
	text, err := s.LLM.Complete(ctx, BuildPrompt(fields))
	if err != nil {
		metrics.IncPolish(metrics.OutcomeCompletion)
		if _, ok := llm.AsCompletionError(err); !ok {
			err = llm.TransportError(llm.ProviderName(s.LLM), err)
		}
		telemetry.Error("polish.completion_failed", map[string]any{
			"request_id": telemetry.RequestID(ctx),
			"provider":   llm.ProviderName(s.LLM),
			"error":      err,
		})
		return Result{}, err
	}

	now := s.clock()
	rec := session.Record{
		ID:           session.NewID(),
		PolishedText: text,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL()),
	}
	if err := s.Sessions.Save(ctx, rec); err != nil {
		metrics.IncPolish(metrics.OutcomeStore)
		return Result{}, &StoreError{Op: "save", Err: err}
	}
	token, err := s.Tokens.Issue(rec)
	if err != nil {
		metrics.IncPolish(metrics.OutcomeStore)
		return Result{}, &StoreError{Op: "issue token", Err: err}
	}

	metrics.IncPolish(metrics.OutcomeSuccess)
	telemetry.Info("polish.completed", map[string]any{
		"request_id":  telemetry.RequestID(ctx),
		"session_ref": util.LogRef(rec.ID),
		"chars":       util.RuneLen(text),
		"duration_ms": now.Sub(start).Milliseconds(),
	})
	return Result{PolishedText: text, SessionToken: token, ExpiresAt: rec.ExpiresAt}, nil
}

// Download renders the result for token. An empty, invalid or expired token
// falls back to the missing-result policy.
func (s *Service) Download(ctx context.Context, token string) (Document, error) {
	text, found, err := s.lookup(ctx, token)
	if err != nil {
		return Document{}, err
	}

	source := SourceSession
	if !found {
		if s.MissingPolicy == MissingError {
			metrics.IncDownload(metrics.SourceMissing)
			return Document{}, ErrNoResult
		}
		text = s.placeholder()
		source = SourcePlaceholder
	}

	var buf bytes.Buffer
	if err := s.Renderer.Render(&buf, text); err != nil {
		return Document{}, &RenderError{Err: err}
	}
	metrics.IncDownload(string(source))
	return Document{Filename: DownloadFilename, Data: buf.Bytes(), Source: source}, nil
}

func (s *Service) lookup(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	id, err := s.Tokens.Parse(token)
	if err != nil {
		telemetry.Info("download.invalid_token", map[string]any{"request_id": telemetry.RequestID(ctx)})
		return "", false, nil
	}
	rec, err := s.Sessions.Load(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", false, nil
		}
		return "", false, &StoreError{Op: "load", Err: err}
	}
	return rec.PolishedText, true, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Service) maxFieldLength() int {
	if s.MaxFieldLength > 0 {
		return s.MaxFieldLength
	}
	return defaultMaxFieldLength
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return defaultSessionTTL
}

func (s *Service) placeholder() string {
	if s.Placeholder != "" {
		return s.Placeholder
	}
	return Placeholder
}

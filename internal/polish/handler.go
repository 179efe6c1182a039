package polish

import (
	_ "embed"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-polisher/internal/llm"
	"cv-polisher/internal/shared/server/respond"
	"cv-polisher/internal/shared/util"
)

const (
	// SessionCookie carries the session token between /process and /download.
	SessionCookie = "cv_session"
	// SessionHeader is the header alternative to the cookie.
	SessionHeader = "X-Session-Id"
	sessionQuery  = "session"
	sessionRefKey = "sessionRef"

	// bodyOverhead covers JSON keys, quoting and escapes beyond the field text.
	bodyOverhead = 4 << 10
)

//go:embed static/index.html
var indexHTML []byte

// HandlerOptions tunes cookie behavior.
type HandlerOptions struct {
	CookieSecure bool
}

// Handler wires HTTP handlers to the polish service.
type Handler struct {
	Svc  *Service
	opts HandlerOptions
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, opts HandlerOptions) *Handler {
	return &Handler{Svc: svc, opts: opts}
}

// RegisterRoutes attaches the page, polish and download routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.POST("/process", h.process)
	r.GET("/download", h.download)
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *Handler) process(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes())

	var req polishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large", gin.H{"limit_bytes": tooLarge.Limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON object of text fields", nil)
		return
	}

	res, err := h.Svc.Polish(c.Request.Context(), req.fields())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set(sessionRefKey, util.LogRef(res.SessionToken))
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, res.SessionToken, maxAge, "/", "", h.opts.CookieSecure, true)
	c.Header(SessionHeader, res.SessionToken)
	respond.OK(c, polishResponse{
		PolishedCV: res.PolishedText,
		SessionID:  res.SessionToken,
		ExpiresAt:  res.ExpiresAt,
	})
}

func (h *Handler) download(c *gin.Context) {
	token := sessionToken(c)
	if token != "" {
		c.Set(sessionRefKey, util.LogRef(token))
	}

	doc, err := h.Svc.Download(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(doc.Data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// maxBodyBytes bounds a polish request: five fields of up to four UTF-8
// bytes per character plus JSON overhead.
func (h *Handler) maxBodyBytes() int64 {
	return int64(5*h.Svc.maxFieldLength()*4) + bodyOverhead
}

// sessionToken reads the token from the query, header or cookie, in that order.
func sessionToken(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query(sessionQuery)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.GetHeader(SessionHeader)); v != "" {
		return v
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	var rerr *RenderError
	var serr *StoreError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), verr.Fields)
	case errors.Is(err, ErrNoResult):
		respond.Error(c, http.StatusNotFound, "no_result", "No CV available", nil)
	case errors.As(err, &rerr):
		respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render PDF", nil)
	case errors.As(err, &serr):
		respond.Error(c, http.StatusInternalServerError, "session_store_error", "failed to access session store", nil)
	default:
		if ce, ok := llm.AsCompletionError(err); ok {
			writeCompletionError(c, ce)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}

func writeCompletionError(c *gin.Context, ce *llm.CompletionError) {
	details := map[string]any{"kind": string(ce.Kind)}
	if ce.StatusCode != 0 {
		details["upstream_status"] = ce.StatusCode
	}
	if ce.Attempts > 0 {
		details["attempts"] = ce.Attempts
	}
	switch ce.Kind {
	case llm.KindTimeout:
		respond.Error(c, http.StatusGatewayTimeout, "completion_timeout", "the completion service did not respond in time", details)
	case llm.KindConfig:
		respond.Error(c, http.StatusServiceUnavailable, "completion_unavailable", "the completion service is not configured", details)
	default:
		respond.Error(c, http.StatusBadGateway, "completion_failed", "the completion service request failed", details)
	}
}

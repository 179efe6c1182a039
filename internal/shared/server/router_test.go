package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-polisher/internal/llm"
	"cv-polisher/internal/polish"
	"cv-polisher/internal/render"
	"cv-polisher/internal/services/health"
	"cv-polisher/internal/session"
	"cv-polisher/internal/shared/config"
)

type unreachableStore struct{ *session.MemoryStore }

func (unreachableStore) Ping(context.Context) error { return errors.New("dial tcp: refused") }

func newRouter(store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := &polish.Service{
		LLM: llm.ClientFunc(func(context.Context, string) (string, error) {
			return "POLISHED", nil
		}),
		Sessions:   store,
		Tokens:     session.NewTokens(""),
		Renderer:   render.NewPDF(render.DefaultLayout()),
		SessionTTL: time.Minute,
	}
	cfg := config.Config{Env: "dev", CORSAllowOrigin: []string{"http://localhost:5000"}}
	return NewRouter(cfg, RouterDeps{
		Polish: polish.NewHandler(svc, polish.HandlerOptions{}),
		Health: health.NewService(store),
	})
}

func TestRouterHealthz(t *testing.T) {
	r := newRouter(session.NewMemoryStore())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"session_store":"memory"}`, resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
}

func TestRouterHealthzUnavailable(t *testing.T) {
	r := newRouter(unreachableStore{session.NewMemoryStore()})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "dial tcp: refused")
}

func TestRouterMetrics(t *testing.T) {
	r := newRouter(session.NewMemoryStore())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "cv_sessions_swept_total")
}

func TestRouterMountsPolishRoutes(t *testing.T) {
	r := newRouter(session.NewMemoryStore())

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/download", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
}

func TestRouterNotFound(t *testing.T) {
	r := newRouter(session.NewMemoryStore())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "not_found")
}

func TestRouterCORSPreflight(t *testing.T) {
	r := newRouter(session.NewMemoryStore())
	req := httptest.NewRequest(http.MethodOptions, "/process", nil)
	req.Header.Set("Origin", "http://localhost:5000")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:5000", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":5000", Addr(""))
	assert.Equal(t, ":8080", Addr("8080"))
	assert.Equal(t, ":9090", Addr(":9090"))
}

func TestRouterIgnoresForwardedForByDefault(t *testing.T) {
	r := NewRouter(config.Config{Env: "dev"}, RouterDeps{})
	var seen string
	r.GET("/ip", func(c *gin.Context) { seen = c.ClientIP() })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", seen)
}

func TestRouterTrustsConfiguredProxies(t *testing.T) {
	r := NewRouter(config.Config{Env: "dev", TrustedProxies: []string{"203.0.113.0/24"}}, RouterDeps{})
	var seen string
	r.GET("/ip", func(c *gin.Context) { seen = c.ClientIP() })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "1.2.3.4", seen)
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-polisher/internal/llm"
	"cv-polisher/internal/llm/gemini"
	"cv-polisher/internal/llm/openai"
	"cv-polisher/internal/polish"
	"cv-polisher/internal/render"
	"cv-polisher/internal/services/health"
	"cv-polisher/internal/session"
	"cv-polisher/internal/shared/config"
	"cv-polisher/internal/shared/server"
	"cv-polisher/internal/shared/storage/db"
	"cv-polisher/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	LLM      llm.Client
	Sessions session.Store
	Tokens   *session.Tokens
	Polish   *polish.Service
	Handler  *polish.Handler
	Health   *health.Service

	closers []func() error
}

// Build wires the completion client, session store and HTTP router from cfg.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	client, err := buildLLM(ctx, app)
	if err != nil {
		return nil, err
	}
	app.LLM = client

	store, err := buildSessionStore(ctx, app)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Sessions = store
	app.Tokens = session.NewTokens(cfg.SessionSigningKey)

	app.Polish = &polish.Service{
		LLM:            app.LLM,
		Sessions:       app.Sessions,
		Tokens:         app.Tokens,
		Renderer:       render.NewPDF(render.DefaultLayout()),
		SessionTTL:     cfg.SessionTTL,
		Timeout:        cfg.PolishTimeout,
		MaxFieldLength: cfg.MaxFieldLength,
		MissingPolicy:  missingPolicy(cfg.MissingResultPolicy),
	}
	app.Handler = polish.NewHandler(app.Polish, polish.HandlerOptions{CookieSecure: cfg.SessionCookieSecure})
	app.Health = health.NewService(app.Sessions)

	app.Router = server.NewRouter(cfg, server.RouterDeps{
		Polish: app.Handler,
		Health: app.Health,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"provider":      llm.ProviderName(app.LLM),
		"session_store": app.Sessions.Kind(),
		"signed_tokens": app.Tokens.Signed(),
		"missing":       cfg.MissingResultPolicy,
	})
	return app, nil
}

// Close releases every resource opened by Build. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// BuildLLM returns the configured completion client wrapped with retries.
// Without an API key the client reports a configuration error on every call.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, func() error, error) {
	noop := func() error { return nil }
	var base llm.Client
	closeFn := noop

	switch {
	case cfg.AIAPIKey == "":
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		base = llm.PlaceholderClient{}
	case cfg.LLMProvider == "gemini":
		model := cfg.LLMModel
		if model == config.DefaultModel {
			model = gemini.DefaultModel
		}
		client, err := gemini.NewClient(ctx, cfg.AIAPIKey, model)
		if err != nil {
			return nil, nil, err
		}
		base = client
		closeFn = client.Close
	default:
		client, err := openai.NewClient(openai.Options{
			APIKey:   cfg.AIAPIKey,
			Model:    cfg.LLMModel,
			Endpoint: cfg.AIAPIURL,
			Timeout:  cfg.CompletionTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		base = client
	}

	return llm.NewRetrying(base, llm.RetryPolicy{
		MaxAttempts: cfg.CompletionMaxAttempts,
		BaseDelay:   cfg.CompletionBackoff,
	}), closeFn, nil
}

func buildLLM(ctx context.Context, app *App) (llm.Client, error) {
	client, closeFn, err := BuildLLM(ctx, app.Config)
	if err != nil {
		return nil, fmt.Errorf("build completion client: %w", err)
	}
	app.onClose(closeFn)
	return client, nil
}

func buildSessionStore(ctx context.Context, app *App) (session.Store, error) {
	cfg := app.Config
	switch cfg.SessionStore {
	case "redis":
		if cfg.RedisURL == "" {
			return nil, errors.New("SESSION_STORE=redis requires REDIS_URL")
		}
		store, err := session.NewRedisStoreFromURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		app.onClose(store.Close)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return store, nil
	case "postgres":
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if sqlDB == nil {
			return session.NewMemoryStore(), nil
		}
		app.DB = sqlDB
		app.onClose(sqlDB.Close)
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return session.NewPGStore(sqlDB), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_url_empty", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, errors.New("SESSION_STORE=postgres requires DATABASE_URL")
	}

	defaults := db.DefaultServerOptions()
	if db.IsLambdaRuntime() {
		defaults = db.DefaultLambdaOptions()
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(defaults))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_connect_failed", map[string]any{"fallback": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func missingPolicy(raw string) polish.MissingPolicy {
	if raw == "error" {
		return polish.MissingError
	}
	return polish.MissingPlaceholder
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

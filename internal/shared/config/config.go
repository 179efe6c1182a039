package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"cv-polisher/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Env             string
	Port            string
	CORSAllowOrigin []string
	TrustedProxies  []string
	LogLevel        string
	LogFormat       string

	LLMProvider           string
	AIAPIKey              string
	AIAPIURL              string
	LLMModel              string
	CompletionTimeout     time.Duration
	CompletionMaxAttempts int
	CompletionBackoff     time.Duration
	PolishTimeout         time.Duration
	MaxFieldLength        int

	SessionStore         string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SessionSigningKey    string
	SessionCookieSecure  bool
	MissingResultPolicy  string

	RedisURL    string
	DatabaseURL string
}

const (
	DefaultAPIURL = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel  = "meta-llama/llama-3.1-70b-instruct"
)

// Load reads configuration from environment variables and an optional config.yaml.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			telemetry.Warn("config.read_failed", map[string]any{"error": err})
		}
	}

	cfg := Config{
		Env:             normalizeEnv(v.GetString("ENV")),
		Port:            v.GetString("PORT"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		TrustedProxies:  splitAndTrim(v.GetString("TRUSTED_PROXIES")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),

		LLMProvider:           normalizeProvider(v.GetString("LLM_PROVIDER")),
		AIAPIKey:              strings.TrimSpace(v.GetString("AI_API_KEY")),
		AIAPIURL:              strings.TrimSpace(v.GetString("AI_API_URL")),
		LLMModel:              strings.TrimSpace(v.GetString("LLM_MODEL")),
		CompletionTimeout:     v.GetDuration("COMPLETION_TIMEOUT"),
		CompletionMaxAttempts: v.GetInt("COMPLETION_MAX_ATTEMPTS"),
		CompletionBackoff:     v.GetDuration("COMPLETION_BACKOFF"),
		PolishTimeout:         v.GetDuration("POLISH_TIMEOUT"),
		MaxFieldLength:        v.GetInt("MAX_FIELD_LENGTH"),

		SessionStore:         normalizeSessionStore(v.GetString("SESSION_STORE")),
		SessionTTL:           v.GetDuration("SESSION_TTL"),
		SessionSweepInterval: v.GetDuration("SESSION_SWEEP_INTERVAL"),
		SessionSigningKey:    v.GetString("SESSION_SIGNING_KEY"),
		SessionCookieSecure:  v.GetBool("SESSION_COOKIE_SECURE"),
		MissingResultPolicy:  normalizeMissingPolicy(v.GetString("MISSING_RESULT_POLICY")),

		RedisURL:    strings.TrimSpace(v.GetString("REDIS_URL")),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
	}

	if cfg.Env == "production" {
		if cfg.AIAPIKey == "" {
			telemetry.Warn("config.missing", map[string]any{"key": "AI_API_KEY"})
		}
		if cfg.SessionSigningKey == "" {
			telemetry.Warn("config.missing", map[string]any{"key": "SESSION_SIGNING_KEY"})
		}
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "5000")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("AI_API_URL", DefaultAPIURL)
	v.SetDefault("LLM_MODEL", DefaultModel)
	v.SetDefault("COMPLETION_TIMEOUT", "30s")
	v.SetDefault("COMPLETION_MAX_ATTEMPTS", 3)
	v.SetDefault("COMPLETION_BACKOFF", "500ms")
	v.SetDefault("POLISH_TIMEOUT", "90s")
	v.SetDefault("MAX_FIELD_LENGTH", 5000)
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("MISSING_RESULT_POLICY", "placeholder")
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	default:
		return "openai"
	}
}

func normalizeSessionStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "redis":
		return "redis"
	case "postgres", "pg", "postgresql":
		return "postgres"
	default:
		return "memory"
	}
}

func normalizeMissingPolicy(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "error") {
		return "error"
	}
	return "placeholder"
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for code paths that cannot take injected config
var globalConfig *Config

// Config holds all environment backed configuration for the chat backend.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// OpenAI-compatible completion backend
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	DefaultModel       string        `env:"DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	TitleModel         string        `env:"TITLE_MODEL" envDefault:"gpt-3.5-turbo"`
	CompletionTimeout  time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"120s"`
	DefaultMaxTokens   int           `env:"DEFAULT_MAX_TOKENS" envDefault:"1000"`
	DefaultTemperature float32       `env:"DEFAULT_TEMPERATURE" envDefault:"0.7"`

	// AI endpoint rate limiting
	AIRateLimitWindow time.Duration `env:"AI_RATE_LIMIT_WINDOW" envDefault:"1m"`
	AIRateLimitMax    int           `env:"AI_RATE_LIMIT_MAX" envDefault:"20"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"chatgpt-clone-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"chatgpt-clone"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.OpenAIBaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.OpenAIBaseURL); err != nil {
			return nil, fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
		}
	}

	if cfg.AIRateLimitMax <= 0 {
		return nil, fmt.Errorf("AI_RATE_LIMIT_MAX must be positive, got %d", cfg.AIRateLimitMax)
	}
	if cfg.AIRateLimitWindow <= 0 {
		return nil, fmt.Errorf("AI_RATE_LIMIT_WINDOW must be positive, got %s", cfg.AIRateLimitWindow)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// GetGlobal returns the global config instance for backwards compatibility.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}

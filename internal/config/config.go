// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the video resolver backend, batch
// concurrency, and observability.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported resolver backends.
const (
	BackendGraphQL = "graphql"
	BackendCobalt  = "cobalt"
)

// maxBatchConcurrency bounds BATCH_CONCURRENCY so a single batch request
// cannot fan out into an unbounded number of upstream calls.
const maxBatchConcurrency = 32

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `env:"ENABLE_HSTS" envDefault:"false"`
	HSTSMaxAge time.Duration `env:"HSTS_MAX_AGE" envDefault:"4320h"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"go-insta-resolver"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1.0"` // [0..1]
}

// ResolverConfig selects and tunes the upstream video resolver.
type ResolverConfig struct {
	Backend string        `env:"RESOLVER_BACKEND" envDefault:"graphql"` // graphql|cobalt
	Timeout time.Duration `env:"RESOLVER_TIMEOUT" envDefault:"15s"`

	// Instagram GraphQL backend
	GraphQLURL string `env:"INSTAGRAM_GRAPHQL_URL" envDefault:"https://www.instagram.com/graphql/query/"`
	QueryHash  string `env:"INSTAGRAM_QUERY_HASH" envDefault:"b3055c01b4b222b8a47dc12b090e4e64"`
	SessionID  string `env:"INSTAGRAM_SESSION_ID"`
	UserAgent  string `env:"INSTAGRAM_USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`

	// cobalt backend
	CobaltEndpoint string `env:"COBALT_ENDPOINT"`
	CobaltAPIKey   string `env:"COBALT_API_KEY"`
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `env:"PORT" envDefault:"5000"` // just the number
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"120s"` // batches call upstream once per URL
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	MaxHeaderBytes    int           `env:"MAX_HEADER_BYTES" envDefault:"1048576"`
	GinMode           string        `env:"GIN_MODE" envDefault:"release"` // debug|release|test

	// Environment / debug
	AppEnv string `env:"APP_ENV" envDefault:"production"`
	Debug  bool   `env:"DEBUG" envDefault:"false"` // forced on when APP_ENV=development

	// Logging / Docs
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"` // debug|info|warn|error|fatal|panic
	LogPretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SwaggerEnabled bool   `env:"SWAGGER_ENABLED" envDefault:"false"`

	// App
	BatchConcurrency int `env:"BATCH_CONCURRENCY" envDefault:"1"` // 1 = sequential
	Resolver         ResolverConfig

	// Web protection
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
	CORS               CORSConfig
	Security           SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	// --- normalization ---
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Resolver.Backend = strings.ToLower(strings.TrimSpace(cfg.Resolver.Backend))
	cfg.CORS.AllowedOrigins = splitCSV(cfg.CORSAllowedOrigins)

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.AppEnv == "development" {
		cfg.Debug = true
	}
	if cfg.Debug {
		cfg.GinMode = "debug"
		cfg.LogLevel = "debug"
		cfg.LogPretty = true
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.BatchConcurrency < 1 || cfg.BatchConcurrency > maxBatchConcurrency {
		return cfg, fmt.Errorf("BATCH_CONCURRENCY must be between 1 and %d", maxBatchConcurrency)
	}
	if cfg.Resolver.Timeout <= 0 {
		return cfg, errors.New("RESOLVER_TIMEOUT must be a positive duration")
	}
	switch cfg.Resolver.Backend {
	case BackendGraphQL:
		if strings.TrimSpace(cfg.Resolver.GraphQLURL) == "" {
			return cfg, errors.New("INSTAGRAM_GRAPHQL_URL must not be empty")
		}
		if strings.TrimSpace(cfg.Resolver.QueryHash) == "" {
			return cfg, errors.New("INSTAGRAM_QUERY_HASH must not be empty")
		}
	case BackendCobalt:
		if strings.TrimSpace(cfg.Resolver.CobaltEndpoint) == "" {
			return cfg, errors.New("COBALT_ENDPOINT is required when RESOLVER_BACKEND=cobalt")
		}
	default:
		return cfg, errors.New("RESOLVER_BACKEND must be one of: graphql, cobalt")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// Addr returns the listen address. The service always binds all interfaces.
func (c Config) Addr() string {
	return "0.0.0.0:" + strings.TrimSpace(c.Port)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

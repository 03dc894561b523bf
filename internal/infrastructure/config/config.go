package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App    AppSettings
	HTTP   HTTPSettings
	Auth   AuthSettings
	Log    LogSettings
	Render RenderSettings
	Debug  DebugSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuthSettings struct {
	Enabled     bool
	IssuerURI   string
	JWKSetURI   string
	ClockSkew   time.Duration
	BypassPaths []string
}

type LogSettings struct {
	Level string
}

// RenderSettings configure the headless rendering session.
type RenderSettings struct {
	Timeout      time.Duration // bound on one full page acquisition
	PollInterval time.Duration // how often render completion is re-checked
	Headless     bool          // disable only for local debugging
	ExecPath     string        // optional pinned Chrome binary
}

// DebugSettings configure the failure snapshot sink.
type DebugSettings struct {
	Enabled bool
	Dir     string
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env file values.
func Load() (AppConfig, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	// This allows the application to work both with .env files (local dev)
	// and environment variables (Docker, production)
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "ms_receipt_core"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:            getEnvAsInt("APP_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthSettings{
			Enabled:     getEnvAsBool("AUTH_ENABLED", false),
			IssuerURI:   strings.TrimSpace(os.Getenv("JWT_ISSUER_URI")),
			JWKSetURI:   strings.TrimSpace(os.Getenv("JWT_JWK_SET_URI")),
			ClockSkew:   getEnvAsDuration("AUTH_CLOCK_SKEW", 2*time.Minute),
			BypassPaths: getEnvAsCSV("AUTH_BYPASS_PATHS", []string{"/health"}),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Render: RenderSettings{
			Timeout:      getEnvAsDuration("RENDER_TIMEOUT", 30*time.Second),
			PollInterval: getEnvAsDuration("RENDER_POLL_INTERVAL", 250*time.Millisecond),
			Headless:     getEnvAsBool("RENDER_HEADLESS", true),
			ExecPath:     strings.TrimSpace(os.Getenv("RENDER_CHROME_PATH")),
		},
		Debug: DebugSettings{
			Enabled: getEnvAsBool("DEBUG_CAPTURE_ENABLED", true),
			Dir:     getEnv("DEBUG_CAPTURE_DIR", "logs"),
		},
	}

	if cfg.Render.Timeout <= 0 {
		return cfg, errors.New("invalid config: RENDER_TIMEOUT must be greater than 0")
	}
	if cfg.Render.PollInterval <= 0 {
		return cfg, errors.New("invalid config: RENDER_POLL_INTERVAL must be greater than 0")
	}
	// The parse endpoint holds the response open for a full render; the
	// server must not cut it off before the render bound is reached.
	if cfg.HTTP.WriteTimeout <= cfg.Render.Timeout {
		return cfg, errors.New("invalid config: HTTP_WRITE_TIMEOUT must exceed RENDER_TIMEOUT")
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURI == "" {
			return cfg, errors.New("invalid config: JWT_ISSUER_URI is required when AUTH_ENABLED=true")
		}
		if cfg.Auth.JWKSetURI == "" {
			return cfg, errors.New("invalid config: JWT_JWK_SET_URI is required when AUTH_ENABLED=true")
		}
	}

	return cfg, nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsCSV(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

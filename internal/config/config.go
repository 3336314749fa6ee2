package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Session store backends.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	APIBaseURL    string
	SessionStore  string
	SessionPath   string
	SessionSecret string
	Profile       string
	DatabaseURL   string
	LogLevel      slog.Level
	LogJSON       bool
	Stub          StubConfig
}

// StubConfig configures the local development backend.
type StubConfig struct {
	Port        string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:    strings.TrimRight(fallback(os.Getenv("CLEVO_API_BASE_URL"), "http://localhost:8080/api"), "/"),
		SessionStore:  strings.ToLower(fallback(os.Getenv("CLEVO_SESSION_STORE"), StoreFile)),
		SessionSecret: strings.TrimSpace(os.Getenv("CLEVO_SESSION_SECRET")),
		Profile:       fallback(os.Getenv("CLEVO_PROFILE"), "default"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Stub: StubConfig{
			Port:        fallback(os.Getenv("CLEVO_STUB_PORT"), "8080"),
			JWTSecret:   fallback(os.Getenv("JWT_SECRET"), "clevo-stub-secret"),
			JWTIssuer:   fallback(os.Getenv("JWT_ISSUER"), "clevo-stub"),
			CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		},
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.Stub.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.Stub.JWTTTL = 60 * time.Minute
	}

	level, err := ParseLogLevel(fallback(os.Getenv("CLEVO_LOG_LEVEL"), "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	format, err := ParseLogFormat(fallback(os.Getenv("CLEVO_LOG_FORMAT"), "text"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogJSON = format == "json"

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("CLEVO_API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}

	switch cfg.SessionStore {
	case StoreFile, StoreSQLite:
		cfg.SessionPath = strings.TrimSpace(os.Getenv("CLEVO_SESSION_PATH"))
		if cfg.SessionPath == "" {
			cfg.SessionPath = defaultSessionPath(cfg.SessionStore)
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when CLEVO_SESSION_STORE=postgres")
		}
	case StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown CLEVO_SESSION_STORE %q", cfg.SessionStore)
	}

	return cfg, nil
}

// StubAddress returns the host:port pair for the stub backend to bind to.
func (c Config) StubAddress() string {
	return fmt.Sprintf(":%s", c.Stub.Port)
}

// ParseLogLevel converts a level name to slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
}

// ParseLogFormat normalizes a log format name; only text and json exist.
func ParseLogFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "text", "json":
		return f, nil
	}
	return "", fmt.Errorf("unknown log format: %s", format)
}

func defaultSessionPath(store string) string {
	name := "session.json"
	if store == StoreSQLite {
		name = "session.db"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".clevo", name)
	}
	return filepath.Join(home, ".clevo", name)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Package config loads application configuration from environment variables,
// applying defaults and validating everything up front so a misconfigured
// deployment fails at startup rather than on the first request.
package config

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Table    TableConfig
	Prefs    PrefsConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout per request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds settings for key and table uploads.
type UploadConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default: 20MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"20971520"`

	// MaxConcurrent caps uploads parsed in parallel across sessions (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long an upload waits for a parse slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// Burst is the number of requests allowed at once (default: 30)
	Burst int `env:"RATE_LIMIT_BURST" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs allowed to set X-Real-IP
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key checking on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// SecureCookies marks the profile cookie Secure (default: false)
	SecureCookies bool `env:"SECURE_COOKIES" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// TableConfig describes the layout of the back-office translation export.
type TableConfig struct {
	// KeyColumn is the column matched against application keys (default: SPA.key)
	KeyColumn string `env:"TABLE_KEY_COLUMN" default:"SPA.key"`

	// StructuralColumns lists the non-language columns, comma-separated
	StructuralColumns []string `env:"TABLE_STRUCTURAL_COLUMNS" default:"SPA.key,Default.key,Android.key,iOS.key,Brand,Tag,ID"`
}

// Structural returns the structural column set, always including KeyColumn.
func (c TableConfig) Structural() compare.StructuralColumns {
	return compare.StructuralColumns(c.StructuralColumns).WithKey(c.KeyColumn)
}

// PrefsConfig selects the preference store backend.
type PrefsConfig struct {
	// Backend is one of memory, postgres, sqlite, redis (default: sqlite)
	Backend string `env:"PREFS_BACKEND" default:"sqlite"`

	// DatabaseURL is the PostgreSQL connection string for the postgres backend
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// SQLitePath is the database file for the sqlite backend (default: data/keydrift.db)
	SQLitePath string `env:"PREFS_SQLITE_PATH" default:"data/keydrift.db"`

	// RedisAddr is host:port of the redis backend
	RedisAddr string `env:"REDIS_ADDR"`

	// RedisPassword authenticates against redis
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB selects the redis logical database (default: 0)
	RedisDB int `env:"REDIS_DB" default:"0"`

	// KeyPrefix namespaces redis keys (default: keydrift:prefs:)
	KeyPrefix string `env:"PREFS_KEY_PREFIX" default:"keydrift:prefs:"`
}

// SessionConfig controls in-memory comparison sessions.
type SessionConfig struct {
	// IdleTimeout drops sessions unused for this long (default: 2h)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"2h"`

	// SweepInterval is how often idle sessions are reaped (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`

	// MaxSessions caps sessions held in memory (default: 1000)
	MaxSessions int `env:"SESSION_MAX" default:"1000"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

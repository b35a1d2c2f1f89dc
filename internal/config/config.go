// Package config loads the inventory proxy configuration from the
// environment, with an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Sternrassler/steam-inventory-client/pkg/client"
	"github.com/Sternrassler/steam-inventory-client/pkg/journal"
	"github.com/Sternrassler/steam-inventory-client/pkg/logging"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	Steam   SteamConfig
	Log     LogConfig
	Journal JournalConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds one inventory request to the API, including
	// every page of a fetch-all run.
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"4m"`

	// Proxies lists the upstream proxies callers may select with ?proxy=.
	// Comma separated; empty allows direct requests only.
	Proxies []string `envconfig:"SERVER_PROXIES"`
}

// SteamConfig holds upstream settings.
type SteamConfig struct {
	BaseURL   string        `envconfig:"STEAM_BASE_URL" default:"https://steamcommunity.com/inventory/"`
	UserAgent string        `envconfig:"STEAM_USER_AGENT" default:"steam-inventory-client/0.1.0"`
	Timeout   time.Duration `envconfig:"STEAM_TIMEOUT" default:"30s"`

	// MaxProxies bounds the proxy transports kept open by the client.
	MaxProxies int `envconfig:"STEAM_MAX_PROXIES" default:"8"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// JournalConfig holds fetch journal settings. The journal is disabled when
// Enabled is false; Redis is not contacted then.
type JournalConfig struct {
	Enabled       bool          `envconfig:"JOURNAL_ENABLED" default:"true"`
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	Limit         int           `envconfig:"JOURNAL_LIMIT" default:"50"`
	TTL           time.Duration `envconfig:"JOURNAL_TTL" default:"168h"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Client returns the Steam client configuration.
func (s *SteamConfig) Client() client.Config {
	return client.Config{
		BaseURL:    s.BaseURL,
		UserAgent:  s.UserAgent,
		Timeout:    s.Timeout,
		MaxProxies: s.MaxProxies,
	}
}

// Logging returns the logger configuration.
func (l *LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(l.Level)
	cfg.Pretty = l.Pretty
	return cfg
}

// RedisAddress returns the Redis address in host:port format.
func (j *JournalConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", j.RedisHost, j.RedisPort)
}

// Options returns the journal options.
func (j *JournalConfig) Options() journal.Options {
	return journal.Options{
		Limit: j.Limit,
		TTL:   j.TTL,
	}
}

// Load reads configuration from environment variables. Variables from a
// .env file in the working directory are applied first if present; real
// environment variables take precedence.
func Load() (*Config, error) {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()

	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

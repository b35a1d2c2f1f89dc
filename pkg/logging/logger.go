// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	// Configure output
	output := cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// ParseLevel converts a LogLevel to a zerolog.Level; unknown levels map to
// info.
func ParseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(string(level))) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Page flow (cursor, page size, assets/descriptions per page)
//   - Proxy transport creation
//   - Error classification
//
// Info: Normal operation events
//   - Completed fetches (items, pages, duration)
//   - Server startup/shutdown
//   - Served API requests
//
// Warn: Warning conditions that don't prevent operation
//   - Non-200 responses from Steam (private inventory, 429)
//   - Aborted fetches (malformed page)
//   - Journal write failures
//
// Error: Error conditions requiring attention
//   - Network failures reaching Steam
//   - Redis unavailability at startup
//   - Configuration errors
//
// Context Fields:
//   - component: emitting package (steam-client, inventory-fetcher, inventory-proxy)
//   - account_id: SteamID64 of the inventory owner
//   - app_id / context_id: inventory scope
//   - route: direct or proxy
//   - page: 1-based page index within a fetch
//   - cursor: start_assetid sent with the page
//   - status: HTTP status code
//   - error_class: error classification (client, server, rate_limit, network)
//   - items / dropped / pages: fetch result counters
//   - duration: elapsed time

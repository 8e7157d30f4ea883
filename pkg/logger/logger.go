package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the portal's structured logger. Callers log ids, counts and levels;
// document text and personal details stay out of log lines.
type Logger struct {
	zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string
	Format     string // "console" or "json"
	TimeFormat string
}

// DefaultConfig is info level console output
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", TimeFormat: time.RFC3339}
}

// New creates a logger writing to stdout
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a logger writing to w. Tests pass a buffer.
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	out := w
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	}

	return &Logger{
		Logger: zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger(),
	}
}

// NewDevelopment logs debug and up to a console
func NewDevelopment() *Logger {
	return New(Config{Level: "debug", Format: "console", TimeFormat: "15:04:05"})
}

// NewProduction logs info and up as json
func NewProduction() *Logger {
	return New(Config{Level: "info", Format: "json", TimeFormat: time.RFC3339})
}

// NewNop discards everything
func NewNop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithComponent tags every line with the emitting component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With().Str("component", component).Logger()}
}

// WithQueryID tags every line with a property query id
func (l *Logger) WithQueryID(queryID string) *Logger {
	return &Logger{Logger: l.With().Str("query_id", queryID).Logger()}
}

// WithSessionID tags every line with a will wizard session id
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{Logger: l.With().Str("session_id", sessionID).Logger()}
}

// parseLevel accepts zerolog level names plus "warning". Unknown levels fall back to info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetGlobal installs l as the process logger, including zerolog's package level logger
// used by libraries that log through github.com/rs/zerolog/log.
func SetGlobal(l *Logger) {
	zlog.Logger = l.Logger
}

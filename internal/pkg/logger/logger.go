// Package logger provides the process-wide zerolog logger. Packages log
// through the level functions here instead of wiring a logger around.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps a zerolog.Logger for callers that want their own instance
type Logger struct {
	zerolog.Logger
}

// NewLogger wraps an existing zerolog.Logger
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{Logger: logger}
}

var defaultLogger zerolog.Logger

// LogLevel names a log severity threshold
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Config controls the global logger
type Config struct {
	// Level is the minimum severity that gets written
	Level LogLevel
	// Pretty switches from JSON lines to the human console format
	Pretty bool
	// Output defaults to os.Stdout when nil
	Output io.Writer
}

// Configure replaces the global logger. Called once at startup and again
// from tests that want to capture output.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	switch config.Level {
	case DebugLevel:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case InfoLevel:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case WarnLevel:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case ErrorLevel:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case FatalLevel:
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var writer io.Writer = config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: time.RFC3339,
		}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Debug starts a debug-level event
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info-level event
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warn-level event
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error-level event
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal starts a fatal-level event; the process exits when it is sent
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

// WithField derives a logger carrying one extra field
func WithField(key string, value interface{}) zerolog.Logger {
	return defaultLogger.With().Interface(key, value).Logger()
}

// WithFields derives a logger carrying the given fields
func WithFields(fields map[string]interface{}) zerolog.Logger {
	context := defaultLogger.With()
	for k, v := range fields {
		context = context.Interface(k, v)
	}
	return context.Logger()
}

func init() {
	Configure(Config{
		Level:  InfoLevel,
		Pretty: true,
		Output: os.Stdout,
	})
}

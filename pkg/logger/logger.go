package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/investo/pkg/config"
)

// ServiceName is attached to every log line
const ServiceName = "investo"

// Logger is a structured logger wrapper around zerolog
// ⭐ SSOT: all logging goes through this package
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger from config, writing to stdout
// ⭐ SSOT: zerolog instances are only created here
func New(cfg *config.Config) *Logger {
	return NewTo(cfg, os.Stdout)
}

// NewTo creates a Logger from config on w.
// CLI commands log to stderr so stdout stays machine-readable.
func NewTo(cfg *config.Config, w io.Writer) *Logger {
	output := w
	if cfg.LogFormat == "console" || cfg.LogFormat == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return NewWithWriter(output, cfg.LogLevel, cfg.Env)
}

// NewWithWriter creates a JSON logger on an arbitrary writer.
// Tests use it with a bytes.Buffer.
func NewWithWriter(w io.Writer, level, env string) *Logger {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	zlog := zerolog.New(w).
		With().
		Timestamp().
		Str("service", ServiceName).
		Str("env", env).
		Logger()

	return &Logger{zlog: zlog}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// parseLogLevel converts string log level to zerolog.Level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zlog.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zlog.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }

// Fatal logs and exits the process
func (l *Logger) Fatal(msg string) { l.zlog.Fatal().Msg(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.zlog.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.zlog.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.zlog.Warn().Msgf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.zlog.Error().Msgf(format, args...) }

// WithField returns a child logger carrying one extra field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger carrying all given fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError returns a child logger with an "error" field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

// Component tags the logger with the emitting package, e.g. "collector"
func (l *Logger) Component(name string) *Logger {
	return l.WithField("component", name)
}

// Zerolog exposes the underlying logger for libraries that want one
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Package logger wraps zerolog with a small field-based API.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger writes structured log events.
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// Config selects level, format and destination.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console or json
	Output     string // stdout, stderr or a file path
	TimeFormat string
}

// New builds a Logger from cfg. File outputs are created with their parent directory.
func New(cfg Config) (*Logger, error) {
	levelName := strings.TrimSpace(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var (
		output io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
		closer = file
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: timeFormat,
			NoColor:    closer != nil,
		}
	}

	zl := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl, closer: closer}, nil
}

// NewWriter returns a Logger writing JSON events to w. Useful in tests.
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// With returns a child logger carrying the given fields on every event.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = f.addToContext(ctx)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []Field) {
	if l == nil || event == nil {
		return
	}
	for _, f := range fields {
		f.addTo(event)
	}
	event.Msg(msg)
}

// Field is a typed key/value attached to an event.
type Field struct {
	key   string
	value any
}

func (f Field) addTo(event *zerolog.Event) {
	switch v := f.value.(type) {
	case string:
		event.Str(f.key, v)
	case int:
		event.Int(f.key, v)
	case int64:
		event.Int64(f.key, v)
	case float64:
		event.Float64(f.key, v)
	case bool:
		event.Bool(f.key, v)
	case time.Duration:
		event.Dur(f.key, v)
	case time.Time:
		event.Time(f.key, v)
	case error:
		event.AnErr(f.key, v)
	default:
		event.Interface(f.key, v)
	}
}

func (f Field) addToContext(ctx zerolog.Context) zerolog.Context {
	switch v := f.value.(type) {
	case string:
		return ctx.Str(f.key, v)
	case int:
		return ctx.Int(f.key, v)
	case bool:
		return ctx.Bool(f.key, v)
	default:
		return ctx.Interface(f.key, v)
	}
}

func String(key, value string) Field { return Field{key: key, value: value} }

func Int(key string, value int) Field { return Field{key: key, value: value} }

func Int64(key string, value int64) Field { return Field{key: key, value: value} }

func Float(key string, value float64) Field { return Field{key: key, value: value} }

func Bool(key string, value bool) Field { return Field{key: key, value: value} }

func Duration(key string, value time.Duration) Field { return Field{key: key, value: value} }

func Time(key string, value time.Time) Field { return Field{key: key, value: value} }

func Error(err error) Field { return Field{key: "error", value: err} }

func Strings(key string, value []string) Field {
	return String(key, strings.Join(value, ", "))
}

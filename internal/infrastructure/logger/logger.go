package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Logger struct {
	*slog.Logger
}

var (
	defaultLogger *Logger
	level         = new(slog.LevelVar)
	mu            sync.Mutex
)

// Config describes where records go. Records are written to Output and,
// when File is set, appended to that file as well.
type Config struct {
	Level     slog.Level
	Format    string
	Output    io.Writer
	File      string
	AddSource bool
}

func DefaultConfig() *Config {
	return &Config{
		Level:     slog.LevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: false,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init replaces the package logger. The returned closer releases the log
// file, if one was opened.
func Init(cfg *Config) (io.Closer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return closer, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		output = io.MultiWriter(output, f)
		closer = f
	}

	level.Set(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	mu.Lock()
	defaultLogger = &Logger{slog.New(handler).With("logger", "tenten-ddns")}
	mu.Unlock()
	return closer, nil
}

func L() *Logger {
	mu.Lock()
	l := defaultLogger
	mu.Unlock()
	if l == nil {
		_, _ = Init(DefaultConfig())
		mu.Lock()
		l = defaultLogger
		mu.Unlock()
	}
	return l
}

// SetLevel changes the level of every logger built by Init, including ones
// already derived through With.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel accepts slog names as well as WARNING and CRITICAL.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR", "CRITICAL", "FATAL":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func WithFields(fields ...any) *Logger {
	return L().With(fields...)
}

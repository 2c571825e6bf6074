package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// globalLogger falls back to the slog default so packages can log before
// InitWithConfig (tests never call it).
var globalLogger = slog.Default()

var output io.Closer

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps a textual level to LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type Config struct {
	Level      LogLevel
	OutputPath string
	Format     string // "json" or "text"
}

// InitWithConfig replaces the process logger. A file output is appended to
// and its directory created; anything else writes to stdout.
func InitWithConfig(config Config) error {
	var w io.Writer = os.Stdout
	if config.OutputPath != "" && config.OutputPath != "stdout" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		_ = Close()
		w = f
		output = f
	}

	globalLogger = slog.New(newHandler(w, config))
	slog.SetDefault(globalLogger)

	return nil
}

func newHandler(w io.Writer, config Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(config.Level),
		AddSource: config.Level == LevelDebug,
	}
	if config.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close releases the log file, if one was opened.
func Close() error {
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

const componentKey = "component"

// With returns a logger tagged with the given component name. Services keep
// one of these instead of going through the package-level helpers.
func With(component string) *slog.Logger {
	return globalLogger.With(componentKey, component)
}

func Debug(msg string, args ...any) { logAt(slog.LevelDebug, msg, args) }
func Info(msg string, args ...any)  { logAt(slog.LevelInfo, msg, args) }
func Warn(msg string, args ...any)  { logAt(slog.LevelWarn, msg, args) }
func Error(msg string, args ...any) { logAt(slog.LevelError, msg, args) }

func logAt(level slog.Level, msg string, args []any) {
	globalLogger.Log(context.Background(), level, msg, args...)
}

// Fatal logs at error level, releases the log file and exits with status 1.
func Fatal(msg string, args ...any) {
	logAt(slog.LevelError, msg, args)
	_ = Close()
	os.Exit(1)
}

// GetLogger returns the process logger, for code that takes a *slog.Logger.
func GetLogger() *slog.Logger {
	return globalLogger
}

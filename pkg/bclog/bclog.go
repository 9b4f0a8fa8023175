// Package bclog provides the structured logger used across the BC client
// and bridge. The teacher's own pkg/logger wraps stdlib log/slog; this
// package wraps zerolog instead, borrowed from the other pack repo
// (helixml-helix) that actually builds its logging on it, for the
// leveled With()-chained component loggers used by bcconn, bcsupervisor,
// and bcstatus. Same shape either way: a small Config type,
// a package-level default, and scoped sub-loggers per component.
package bclog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's levels with the names the CLI flags use.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the on-disk/console encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Config holds logger configuration, analogous to the teacher's logger.Config.
type Config struct {
	Level      Level
	Format     Format
	OutputPath string // empty means stderr
}

// NewConfig returns sane defaults.
func NewConfig() Config {
	return Config{Level: LevelInfo, Format: FormatConsole}
}

// ParseLevel converts a string flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(s), nil
	default:
		return "", ErrInvalidLevel(s)
	}
}

// ErrInvalidLevel reports an unrecognised --log-level value.
type ErrInvalidLevel string

func (e ErrInvalidLevel) Error() string {
	return "invalid log level: " + string(e) + " (must be debug, info, warn, or error)"
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger wraps zerolog.Logger with an owned output file, closed on Close.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a Logger from Config, opening OutputPath if set.
func New(cfg Config) (*Logger, error) {
	var w io.Writer = os.Stderr
	var file *os.File
	if cfg.OutputPath != "" {
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		file = f
		w = f
	} else if cfg.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(w).With().Timestamp().Logger().Level(cfg.Level.zerolog())
	return &Logger{Logger: zl, file: file}, nil
}

// Close releases the owned output file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Component returns a child logger tagged with a "component" field, mirroring
// the teacher's logger.With("component", ...) idiom.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.Logger.With().Str("component", name).Logger()
}

var (
	defaultMu  sync.RWMutex
	defaultLog = func() *Logger {
		l, _ := New(NewConfig())
		return l
	}()
)

// SetDefault installs l as the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLog = l
}

// Default returns the process-wide default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLog
}

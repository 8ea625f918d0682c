// Package logging builds the zerolog logger shared by every command.
// Logs go to a rotated file under the grabbit home; --verbose adds a
// human-readable stream on stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string

	// File is the log file path. Empty disables the file sink.
	File       string
	MaxSizeMB  int
	MaxBackups int

	// Verbose adds a console writer and lowers the level to debug.
	Verbose bool
	Console io.Writer
}

// Logger is a configured logger plus the resources behind it.
type Logger struct {
	zerolog.Logger

	// RunID identifies this invocation in the log file.
	RunID string

	file *lumberjack.Logger
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New returns a logger for opts. With no sinks it returns a disabled logger.
func New(opts Options) (*Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	l := &Logger{RunID: uuid.NewString()}

	var writers []io.Writer
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		writers = append(writers, l.file)
	}
	if opts.Verbose {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen})
	}

	if len(writers) == 0 {
		l.Logger = zerolog.Nop()
		return l, nil
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("run", l.RunID).
		Logger()
	return l, nil
}

// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	Level      string
	Verbose    bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a logger writing human-readable lines to console and, when
// File is set, JSON lines to a rotating file. The returned closer releases
// the file.
func New(console io.Writer, opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		level = l
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly}}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package logging builds the zerolog logger used by the contextio CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer names accepted in Options.Writers.
const (
	WriterConsole = "console"
	WriterFile    = "file"
)

// Options selects the level and the outputs of a logger.
type Options struct {
	Level   string
	Writers []string

	// File settings apply when Writers contains "file".
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Console overrides the console destination. Defaults to os.Stderr.
	Console io.Writer
}

// New returns a logger and a Closer that flushes and closes the log file.
// An empty Writers list defaults to the console.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	writers := opts.Writers
	if len(writers) == 0 {
		writers = []string{WriterConsole}
	}

	var (
		outs   []io.Writer
		closer io.Closer = nopCloser{}
	)
	for _, w := range writers {
		switch strings.ToLower(strings.TrimSpace(w)) {
		case WriterConsole:
			dst := opts.Console
			if dst == nil {
				dst = os.Stderr
			}
			outs = append(outs, zerolog.ConsoleWriter{Out: dst, TimeFormat: time.RFC3339, NoColor: dst != os.Stderr})
		case WriterFile:
			if opts.File == "" {
				return zerolog.Nop(), nopCloser{}, fmt.Errorf("log writer %q needs a file path", WriterFile)
			}
			lj := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    orDefault(opts.MaxSizeMB, 10),
				MaxBackups: orDefault(opts.MaxBackups, 3),
				MaxAge:     orDefault(opts.MaxAgeDays, 28),
			}
			outs = append(outs, lj)
			closer = lj
		default:
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("unknown log writer %q", w)
		}
	}

	var out io.Writer = outs[0]
	if len(outs) > 1 {
		out = zerolog.MultiLevelWriter(outs...)
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closer, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package logging builds the process logger. The TUI owns the terminal, so
// logs go to a JSON file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to path at level. An empty path logs to
// stderr. The returned closer releases the file.
func New(path, level string) (*logrus.Logger, io.Closer, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{})

	if path == "" {
		l.SetOutput(os.Stderr)
		return l, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	return l, f, nil
}

// Discard returns a logger that drops everything, for tests and embedding.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

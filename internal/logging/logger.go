// Package logging configures the process logger and adapts it to the
// service's Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. New replaces it.
var L = clog.New(os.Stderr)

// New builds a logger writing to w. format is text, json or logfmt.
func New(w io.Writer, level, format string) (*clog.Logger, error) {
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	var formatter clog.Formatter
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		formatter = clog.TextFormatter
	case "json":
		formatter = clog.JSONFormatter
	case "logfmt":
		formatter = clog.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return clog.NewWithOptions(w, clog.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	}), nil
}

// Setup builds a logger with New and installs it as L.
func Setup(w io.Writer, level, format string) (*clog.Logger, error) {
	logger, err := New(w, level, format)
	if err != nil {
		return nil, err
	}
	L = logger
	return logger, nil
}

// Adapter exposes a charmbracelet logger through msg-string methods.
type Adapter struct {
	l *clog.Logger
}

// Adapt wraps l. A nil l uses L at call time.
func Adapt(l *clog.Logger) Adapter {
	return Adapter{l: l}
}

func (a Adapter) logger() *clog.Logger {
	if a.l != nil {
		return a.l
	}
	return L
}

func (a Adapter) Debug(msg string, args ...any) { a.logger().Debug(msg, args...) }
func (a Adapter) Info(msg string, args ...any)  { a.logger().Info(msg, args...) }
func (a Adapter) Warn(msg string, args ...any)  { a.logger().Warn(msg, args...) }
func (a Adapter) Error(msg string, args ...any) { a.logger().Error(msg, args...) }

// Package logger configures the shared structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.Mutex
	log *logrus.Logger
)

// Init builds the shared logger. An empty level falls back to LOG_LEVEL and
// then info. LOG_FORMAT=json forces the JSON formatter. Output goes to stderr
// so table output on stdout stays clean.
func Init(level string, json bool) *logrus.Logger {
	l := logrus.New()

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		l.SetLevel(parsed)
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("invalid_level", level).Warn("invalid log level, using info")
	}

	if json || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	l.SetOutput(os.Stderr)

	mu.Lock()
	log = l
	mu.Unlock()
	return l
}

// Get returns the shared logger, initializing it with defaults on first use.
func Get() *logrus.Logger {
	mu.Lock()
	l := log
	mu.Unlock()
	if l == nil {
		return Init("", false)
	}
	return l
}

// SetOutput redirects the shared logger, e.g. to a file while the dashboard
// owns the terminal.
func SetOutput(w io.Writer) {
	Get().SetOutput(w)
}

// WithComponent tags entries with the emitting component.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}

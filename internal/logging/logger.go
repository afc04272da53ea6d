// Package logging builds the charm logger used by the configure tool.
// Level, prefix and destination come from environment variables.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Environment variables read by NewLogger.
const (
	EnvLevel  = "CONFIGURE_LOG_LEVEL"
	EnvPrefix = "CONFIGURE_LOG_PREFIX"
	EnvToFile = "CONFIGURE_LOG_TO_FILE"
)

// LoggerCloser wraps a logger and closes its destination when that is a file.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps CONFIGURE_LOG_LEVEL values to a level. Unknown values
// mean info.
func ParseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           ParseLevel(os.Getenv(EnvLevel)),
	})

	prefix := os.Getenv(EnvPrefix)
	if prefix == "" {
		prefix = "configure"
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a logger from the environment:
// CONFIGURE_LOG_LEVEL: debug, info, warn, error (default: info)
// CONFIGURE_LOG_PREFIX: prefix for log messages (default: "configure")
// CONFIGURE_LOG_TO_FILE: "1" logs to a timestamped file instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv(EnvToFile) == "1" {
		name := fmt.Sprintf("configure-%s.log", time.Now().Format("20060102-150405"))
		// Fall back to stderr when the file cannot be created.
		if f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); err == nil {
			output = f
		}
	}

	return NewLoggerWithWriter(output)
}

// IsDebug reports whether debug logging was requested through the environment.
func IsDebug() bool {
	return os.Getenv(EnvLevel) == "debug"
}

// Package log installs the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"github.com/andresj-sanchez/SR2/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	closer      io.Closer
)

// Setup routes slog through the charm logger from the environment. debug
// forces the debug level and reports callers. Only the first call has an
// effect.
func Setup(debug bool) {
	initOnce.Do(func() {
		lg := logging.NewLogger()
		if debug {
			lg.SetLevel(charmlog.DebugLevel)
		}
		if debug || logging.IsDebug() {
			lg.SetReportCaller(true)
		}
		closer = lg

		slog.SetDefault(slog.New(lg.Logger))
		initialized.Store(true)
	})
}

// Initialized reports whether Setup ran.
func Initialized() bool {
	return initialized.Load()
}

// Close releases the log file, if any.
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

// RecoverPanic logs a panic in name and runs cleanup. It must be deferred.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}

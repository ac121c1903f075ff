// Package log wires the process-wide slog default to the charm logger.
package log

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"rommap/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	logger      *logging.LoggerCloser
)

// Setup builds the logger from the environment, raises it to debug level
// when asked, and installs it as the slog default. Only the first call has
// an effect.
func Setup(debug bool) *charmlog.Logger {
	initOnce.Do(func() {
		logger = logging.NewLogger()
		if debug {
			logger.SetLevel(charmlog.DebugLevel)
			logger.SetReportCaller(true)
		}
		slog.SetDefault(slog.New(logger.Logger))
		initialized.Store(true)
	})
	return logger.Logger
}

// Initialized reports whether Setup has run.
func Initialized() bool {
	return initialized.Load()
}

// Close releases the log file, if any.
func Close() error {
	if !Initialized() {
		return nil
	}
	return logger.Close()
}

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

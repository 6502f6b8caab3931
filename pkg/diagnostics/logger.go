// Package diagnostics provides the ambient logging and profiling used by
// the butler and control threads. The realtime audio thread must never
// call into it directly (logging allocates and can block) — Warn/Error
// from the RT path should instead be queued via Signal and drained by the
// butler or control thread.
package diagnostics

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger *log.Logger
	once          sync.Once
)

func initDefault() {
	defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
		Prefix:          "diskstream",
		Level:           log.InfoLevel,
	})
}

// Default returns the package-level logger, creating it on first use.
func Default() *log.Logger {
	once.Do(initDefault)
	return defaultLogger
}

// SetLevel sets the minimum level for the default logger.
func SetLevel(level log.Level) {
	Default().SetLevel(level)
}

// With returns a child logger carrying the given key/value pairs, useful
// for tagging log lines with a track ID or channel index.
func With(keyvals ...interface{}) *log.Logger {
	return Default().With(keyvals...)
}

func Debug(msg interface{}, keyvals ...interface{}) { Default().Debug(msg, keyvals...) }
func Info(msg interface{}, keyvals ...interface{})  { Default().Info(msg, keyvals...) }
func Warn(msg interface{}, keyvals ...interface{})  { Default().Warn(msg, keyvals...) }
func Error(msg interface{}, keyvals ...interface{}) { Default().Error(msg, keyvals...) }

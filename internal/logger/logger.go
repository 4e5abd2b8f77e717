package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Options controls where the panel logs go.
type Options struct {
	Level string
	// File, when set, receives a copy of every entry and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call decides the options;
// later calls return the already initialized instance.
func Get(opts Options) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(opts)
	})
	return globalLogger
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return newNopLogger()
}

package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerMu.Lock()
		defer defaultLoggerMu.Unlock()
		if defaultLogger == nil {
			defaultLogger = New("warn")
		}
	})

	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()

	return defaultLogger
}

// New creates a new logger writing to stderr with the specified level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w. Tests use it to capture output.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "gonmc",
	})

	setLoggerLevel(logger, level)

	return logger
}

// ParseLevel maps a level name to a log.Level, defaulting to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

func setLoggerLevel(logger *log.Logger, level string) {
	logger.SetLevel(ParseLevel(level))
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	getDefaultLogger()

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()

	defaultLogger = logger
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	setLoggerLevel(getDefaultLogger(), level)
}

// NewInteractive creates an info-level logger without a prefix for
// user-facing command output.
func NewInteractive(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Level:           log.InfoLevel,
	})
}

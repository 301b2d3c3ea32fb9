// Package logging provides config-driven categorized logging for
// lorekeeper. Each category writes to its own file under <data-dir>/logs/.
// When debug mode is off, every logger is a no-op: an interactive session
// must never mix diagnostics into command output.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a log stream/subsystem.
type Category string

const (
	CategoryBoot     Category = "boot"     // startup, config, store selection
	CategoryScan     Category = "scan"     // word scanning
	CategoryToken    Category = "token"    // token matching
	CategoryDispatch Category = "dispatch" // command selection and priorities
	CategoryRepo     Category = "repo"     // repository changes, undo/redo
	CategoryStore    Category = "store"    // data store operations
	CategoryTime     Category = "time"     // in-game clock
	CategoryUI       Category = "ui"       // REPL events
)

// Options selects what gets logged, mirroring the logging section of the
// config file.
type Options struct {
	DebugMode  bool
	Level      string          // debug, info, warn, error
	Categories map[string]bool // nil enables all categories
}

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*zap.SugaredLogger)
	logsDir string
	opts    Options
	active  bool
)

// Initialize points the logging system at a data directory and applies the
// configured options. With debug mode off this is a silent no-op and no
// directory is created.
func Initialize(dataDir string, o Options) error {
	mu.Lock()
	defer mu.Unlock()

	opts = o
	loggers = make(map[Category]*zap.SugaredLogger)
	active = false

	if !o.DebugMode {
		return nil
	}
	if dataDir == "" {
		return fmt.Errorf("logging: data directory required")
	}

	logsDir = filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("logging: create logs directory: %w", err)
	}
	active = true

	boot := get(CategoryBoot)
	boot.Infof("logging initialized, dir=%s level=%s", logsDir, o.Level)
	return nil
}

// Get returns the logger for a category. Disabled categories (and all
// categories before Initialize or in production mode) get a no-op logger.
func Get(category Category) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return get(category)
}

func get(category Category) *zap.SugaredLogger {
	if logger, ok := loggers[category]; ok {
		return logger
	}

	logger := zap.NewNop().Sugar()
	if active && categoryEnabled(category) {
		if built, err := build(category); err == nil {
			logger = built
		} else {
			fmt.Fprintf(os.Stderr, "[logging] could not open %s log: %v\n", category, err)
		}
	}
	loggers[category] = logger
	return logger
}

func categoryEnabled(category Category) bool {
	if opts.Categories == nil {
		return true
	}
	enabled, ok := opts.Categories[string(category)]
	return ok && enabled
}

func build(category Category) (*zap.SugaredLogger, error) {
	file, err := os.OpenFile(
		filepath.Join(logsDir, string(category)+".log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(file),
		parseLevel(opts.Level),
	)
	return zap.New(core).Named(string(category)).Sugar(), nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes every open logger; call before exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	for _, logger := range loggers {
		_ = logger.Sync()
	}
}

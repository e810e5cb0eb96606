// Package logging provides the categorized operator log for docchat.
// Every category is a named child of one zap logger. The interactive panel
// logs to a file only (the terminal belongs to the UI); CLI commands also
// write to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"docchat/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAPI    Category = "api"    // /query calls
	CategoryUpload Category = "upload" // /addDocuments calls
	CategoryUI     Category = "ui"     // Panel lifecycle and key handling
	CategoryWatch  Category = "watch"  // Directory watcher
)

// Options tune how Initialize builds the root logger.
type Options struct {
	// Verbose forces debug level regardless of the configured level.
	Verbose bool
	// Stderr adds a stderr sink next to the file sink.
	Stderr bool
}

var (
	mu     sync.RWMutex
	root   = zap.NewNop()
	closer func()
)

// Initialize builds the root logger from cfg and installs it for Get.
// Call CloseAll at shutdown.
func Initialize(cfg config.LoggingConfig, opts Options) (*zap.Logger, error) {
	l, closeFn, err := Build(cfg, opts)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	prevCloser := closer
	root = l
	closer = closeFn
	mu.Unlock()

	if prevCloser != nil {
		prevCloser()
	}
	return l, nil
}

// Build creates a logger without installing it. The returned close function
// releases the file sink.
func Build(cfg config.LoggingConfig, opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.IsJSON() {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var cores []zapcore.Core
	closeFn := func() {}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		sink, closeSink, err := zap.Open(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		closeFn = closeSink
		cores = append(cores, zapcore.NewCore(enc, sink, level))
	}
	if opts.Stderr {
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.Lock(os.Stderr), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), closeFn, nil
	}
	return zap.New(zapcore.NewTee(cores...)), closeFn, nil
}

// SetLogger installs l as the root logger. Used by tests and by callers that
// build their own logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	root = l
	mu.Unlock()
}

// Get returns the logger for category. It is a no-op logger until Initialize
// or SetLogger runs.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(category))
}

// CloseAll flushes and releases the active sinks.
func CloseAll() {
	mu.Lock()
	l, c := root, closer
	root = zap.NewNop()
	closer = nil
	mu.Unlock()

	_ = l.Sync()
	if c != nil {
		c()
	}
}

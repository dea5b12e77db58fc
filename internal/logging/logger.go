// Package logging provides structured logging configuration using go.uber.org/zap.
//
// An import run writes to two places:
//
//   - Audit: durable, severity-routed files. ERROR and above go to the error
//     file, WARN only to the warning file, INFO only to the info file.
//   - Progress: a console logger on stdout for live operator visibility.
//
// The mock server only uses a console logger and carries a request-scoped
// logger through the request context (see FromContext).
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/userimport/internal/config"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sinks holds the loggers for one process. Close must be called before exit
// so buffered entries reach the files.
type Sinks struct {
	Audit    *zap.Logger
	Progress *zap.Logger

	files []*os.File
}

// Open creates the log directory, opens the three severity files in append
// mode and builds the Audit and Progress loggers.
func Open(cfg config.LoggingConfig, console io.Writer) (*Sinks, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", cfg.Dir, err)
	}

	s := &Sinks{}
	routes := []struct {
		name    string
		enabler zapcore.LevelEnabler
	}{
		{cfg.ErrorFile, zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel })},
		{cfg.WarningFile, zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.WarnLevel })},
		{cfg.InfoFile, zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.InfoLevel })},
	}

	cores := make([]zapcore.Core, 0, len(routes))
	for _, r := range routes {
		path := filepath.Join(cfg.Dir, r.name)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			s.closeFiles()
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		s.files = append(s.files, f)
		cores = append(cores, zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(f), r.enabler))
	}

	s.Audit = zap.New(zapcore.NewTee(cores...))
	s.Progress = NewConsole(cfg.Level, cfg.Format, console)
	return s, nil
}

// Close flushes both loggers and closes the severity files.
func (s *Sinks) Close() error {
	var errs []error
	if s.Audit != nil {
		if err := s.Audit.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Progress != nil {
		// Syncing stdout fails on some terminals; that is not worth reporting.
		_ = s.Progress.Sync()
	}
	if err := s.closeFiles(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Sinks) closeFiles() error {
	var errs []error
	for _, f := range s.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.files = nil
	return errors.Join(errs...)
}

// NewConsole builds a console logger writing to w at the given level.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func NewConsole(level, format string, w io.Writer) *zap.Logger {
	core := zapcore.NewCore(newEncoder(format), zapcore.Lock(zapcore.AddSync(w)), parseLevel(level))
	return zap.New(core)
}

// parseLevel converts a string log level to a zap level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if strings.ToLower(format) == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

type ctxKey struct{}

// IntoContext stores a logger in ctx.
func IntoContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or zap's global logger.
//
// When ctx carries a chi RequestID the returned logger includes request_id,
// so every entry for one request can be correlated.
func FromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	if !ok || logger == nil {
		logger = zap.L()
	}

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With(zap.String("request_id", reqID))
	}

	return logger
}

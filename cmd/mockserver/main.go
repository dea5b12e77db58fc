// Command mockserver runs a stand-in user creation endpoint on port 5000.
//
// Created users are kept in memory, or in Postgres when DATABASE_URL is set.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/JonMunkholm/userimport/internal/config"
	"github.com/JonMunkholm/userimport/internal/logging"
	"github.com/JonMunkholm/userimport/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		logging.NewConsole("info", "text", os.Stderr).Error("failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	logger := logging.NewConsole(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	} else {
		logger.Info("loaded .env file (overwriting existing env vars)")
	}
	logger.Info("configuration loaded", zap.String("addr", cfg.Server.Addr()), zap.Bool("postgres", cfg.Database.URL != ""))

	if err := serve(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store web.UserStore
	if cfg.Database.URL != "" {
		pool, err := web.OpenPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		pgStore, err := web.NewPostgresStore(ctx, pool)
		if err != nil {
			return err
		}
		store = pgStore
		logger.Info("storing users in postgres")
	} else {
		store = web.NewMemoryStore()
		logger.Info("storing users in memory")
	}

	server := web.NewServer(store, cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	} else if err != nil {
		logger.Warn("shutdown timed out", zap.Error(err))
	}
	return <-errCh
}

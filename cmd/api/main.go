// Command api runs the CourseHub backend: the public catalog and content
// API plus the permission-gated CMS surface.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/infrastructure/config"
	"coursehub-backend/infrastructure/di"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	logger := container.Logger
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers: warm the content cache and, when configured,
	// watch the local content directory for edits
	go container.Preloader.Run(ctx)
	if container.Watcher != nil {
		go container.Watcher.Run(ctx)
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.ServerAddress),
			zap.String("environment", cfg.Environment))
		if err := container.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := container.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

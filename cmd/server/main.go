package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/api"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/logging"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers/factory"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.New(cfg.Log)

	// Initialize provider
	provider, err := factory.CreateProvider(cfg.Provider)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create provider")
	}
	if err := provider.ValidateConfig(); err != nil {
		// Keep serving; health reports the missing key and test-gemini fails cleanly
		logger.WithError(err).Warn("Provider is not configured; summarization requests will fail")
	}

	// Initialize services
	svc := services.NewServices(cfg, provider, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sessions.CleanupInterval > 0 {
		svc.Cleanup.Start(ctx)
	}

	app := api.NewApp(cfg, svc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        addr,
			"provider":    provider.Name(),
			"model":       provider.Model(),
			"session_ttl": svc.Sessions.TTL(),
		}).Info("Meeting Summarizer starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	svc.Cleanup.Stop()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.WithError(err).Error("Server shutdown did not complete cleanly")
	}
}

package services

import (
	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/llm"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
)

// Services holds all service instances
type Services struct {
	// Primary service - handlers go through this
	Summary *SummaryService

	// Supporting components, exposed for startup and shutdown wiring
	Sessions *SessionStore
	Cleanup  *CleanupScheduler
	Metrics  *llm.MetricsCollector
}

// NewServices creates all service instances around one upstream provider
func NewServices(cfg *config.Config, provider providers.Provider, logger *logrus.Logger) *Services {
	store := NewSessionStore(cfg.Sessions.TTL)
	metrics := llm.NewMetricsCollector()

	opts := SummaryOptions{
		Timeout:   cfg.Provider.Timeout,
		MaxTokens: cfg.Provider.MaxTokens,
	}
	if cfg.Provider.Temperature != nil {
		temperature := *cfg.Provider.Temperature
		opts.Temperature = &temperature
	}

	return &Services{
		Summary:  NewSummaryService(provider, store, metrics, logger, opts),
		Sessions: store,
		Cleanup:  NewCleanupScheduler(store, cfg.Sessions.CleanupInterval, logger),
		Metrics:  metrics,
	}
}

package factory

import (
	"fmt"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers/gemini"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers/openai"
)

// CreateProvider creates a provider instance based on configuration
func CreateProvider(cfg config.ProviderConfig) (providers.Provider, error) {
	switch cfg.Type {
	case "", "gemini":
		return gemini.NewProvider(cfg), nil
	case "openai", "openai-compatible":
		return openai.NewProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

package llm

import (
	"context"

	"github.com/PabloGalante/syntax-chat/internal/config"
	"github.com/PabloGalante/syntax-chat/internal/domain"
	"github.com/PabloGalante/syntax-chat/internal/observability"
)

// NewFromConfig picks the mock or the Gemini client.
func NewFromConfig(ctx context.Context, cfg *config.Config) (domain.CompletionModel, error) {
	log := observability.LoggerFromContext(ctx)

	if cfg.UseMockLLM {
		log.Info("using mock llm client")
		return NewMockLLM(), nil
	}

	gc := GeminiConfig{
		DefaultModel: cfg.ModelName,
		SystemPrompt: cfg.SystemPrompt,
	}
	switch cfg.Mode {
	case config.ModeVertex:
		gc.Project = cfg.GCPProjectID
		gc.Location = cfg.GCPLocation
	default:
		gc.APIKey = cfg.APIKey
	}

	log.Info("using gemini llm client", "mode", cfg.Mode, "model", cfg.ModelName)
	client, err := NewGeminiClient(ctx, gc)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GenerationOptions returns the fixed per-deployment options.
func GenerationOptions(cfg *config.Config) domain.GenerationOptions {
	return domain.GenerationOptions{
		Model:       cfg.ModelName,
		Temperature: cfg.Temperature,
	}
}

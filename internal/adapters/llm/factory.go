package llm

import (
	"fmt"

	"github.com/PabloGalante/weatherchat/internal/config"
	"github.com/PabloGalante/weatherchat/internal/domain"
)

// NewComposer builds the ResponseComposer selected by cfg.Backend.
func NewComposer(cfg config.LLMConfig) (domain.ResponseComposer, error) {
	switch cfg.Backend {
	case "mock":
		return NewMockLLM(), nil
	case "genai":
		return NewGenAIClient(GenAIConfig{
			APIKey:    cfg.APIKey,
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.Model,
		}), nil
	case "rest", "":
		return NewGeminiClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

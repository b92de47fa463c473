package llm

import (
	"context"
	"fmt"

	"github.com/snowretail/cortex-assistant/config"
	"github.com/snowretail/cortex-assistant/cortex"
)

// Provider abstracts a text-generation backend. The model identifier is
// threaded per call so one provider can serve every configured model.
type Provider interface {
	GetProviderType() string
	GenerateCompletion(ctx context.Context, model, prompt string) (string, error)
}

// NewProvider builds the configured generation provider.
func NewProvider(cfg config.LLMConfig, cx *cortex.Client) (Provider, error) {
	switch cfg.Provider {
	case "", "cortex":
		if cx == nil {
			return nil, fmt.Errorf("cortex client is required for the cortex llm provider")
		}
		return &CortexProvider{client: cx, defaultModel: cfg.Model}, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// CortexProvider generates completions with the warehouse platform's
// built-in generation function.
type CortexProvider struct {
	client       *cortex.Client
	defaultModel string
}

func (p *CortexProvider) GetProviderType() string { return "cortex" }

func (p *CortexProvider) GenerateCompletion(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = p.defaultModel
	}
	return p.client.Complete(ctx, model, prompt)
}

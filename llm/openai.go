package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/snowretail/cortex-assistant/config"
	"github.com/snowretail/cortex-assistant/schema"
)

// OpenAIProvider generates completions through any OpenAI-compatible
// endpoint, for running the pipeline against models outside the warehouse.
type OpenAIProvider struct {
	client       openai.Client
	defaultModel string
	temperature  float64
	maxTokens    int
}

func NewOpenAIProvider(cfg config.LLMConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIProvider{
		client:       openai.NewClient(opts...),
		defaultModel: cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
	}, nil
}

func (p *OpenAIProvider) GetProviderType() string { return "openai" }

func (p *OpenAIProvider) GenerateCompletion(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = p.defaultModel
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.temperature > 0 {
		params.Temperature = openai.Float(p.temperature)
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", schema.ErrServiceUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices: %w", schema.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

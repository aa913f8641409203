package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/viant/taskly/metrics"
)

// Generator produces a completion for a system/user prompt pair. It is the
// seam the planner, strategist, judge and resolver share; tests supply fakes.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Generate calls the function.
func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// Client implements Generator over a langchaingo model.
type Client struct {
	model       llms.Model
	callOptions []llms.CallOption
}

// NewClient wraps a langchaingo model.
func NewClient(model llms.Model, options ...Option) *Client {
	ret := &Client{model: model}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// NewOpenAI creates a client for an OpenAI-compatible endpoint; baseURL is
// optional and covers proxies and compatible providers.
func NewOpenAI(apiKey, model, baseURL string, options ...Option) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewClient(llm, options...), nil
}

// Generate implements Generator.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	metrics.FromContext(ctx).Add(metrics.CounterLLMCalls, 1)
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}
	resp, err := c.model.GenerateContent(ctx, messages, c.callOptions...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

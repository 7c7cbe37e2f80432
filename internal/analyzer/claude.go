package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

// ClaudeClient реализует Completer поверх Anthropic Messages API с ограничением частоты запросов.
type ClaudeClient struct {
	api       anthropic.Client
	model     anthropic.Model
	maxTokens int64
	limiter   *rate.Limiter
}

// NewClaudeClient создает клиента Anthropic. rpm <= 0 отключает ограничение частоты.
func NewClaudeClient(apiKey, model string, maxTokens, rpm int, opts ...option.RequestOption) *ClaudeClient {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}

	return &ClaudeClient{
		api:       anthropic.NewClient(opts...),
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
		limiter:   newLimiter(rpm, 1),
	}
}

func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// Complete отправляет один запрос и склеивает текстовые блоки ответа.
func (c *ClaudeClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text content in API response")
	}
	return sb.String(), nil
}

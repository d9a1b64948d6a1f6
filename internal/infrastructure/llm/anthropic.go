package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"

	"NewsRelay/internal/config"
	"NewsRelay/internal/ports"
)

// AnthropicClient implements ports.TextGenerator with llmkit's Anthropic helpers.
type AnthropicClient struct {
	apiKey       string
	systemPrompt string
	timeout      time.Duration
	settings     types.RequestSettings
}

var _ ports.TextGenerator = (*AnthropicClient)(nil)

// NewAnthropicClient builds a client from configuration.
func NewAnthropicClient(cfg config.LLMConfig) *AnthropicClient {
	return &AnthropicClient{
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		timeout:      cfg.TimeoutDuration(),
		settings: types.RequestSettings{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
	}
}

type completion struct {
	text string
	err  error
}

// Complete runs the prompt. llmkit takes no context and builds its own
// http.Client without a timeout, so the call runs on its own goroutine and ctx
// only bounds how long we wait for it. After a timeout that goroutine keeps
// running until llmkit returns; its result is dropped into a buffered channel.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.settings.Model == "" {
		return "", fmt.Errorf("anthropic client misconfigured")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done := make(chan completion, 1)
	go func() {
		text, err := c.prompt(prompt)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("anthropic completion: %w", ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}

func (c *AnthropicClient) prompt(prompt string) (string, error) {
	response, err := anthropic.PromptWithSettings(c.systemPrompt, prompt, "", c.apiKey, c.settings)
	if err != nil {
		return "", fmt.Errorf("anthropic prompt: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in anthropic response")
	}
	return response.Content[0].Text, nil
}

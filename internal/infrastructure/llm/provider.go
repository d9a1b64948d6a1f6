package llm

import (
	"fmt"
	"strings"

	"NewsRelay/internal/config"
	"NewsRelay/internal/ports"
)

// New picks the text generator named by cfg.Provider. Missing model and
// endpoint settings get the provider's defaults.
func New(cfg config.LLMConfig) (ports.TextGenerator, error) {
	cfg = cfg.WithProviderDefaults()
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", config.ProviderOpenAI, config.ProviderGroq:
		return NewChatGPTClient(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (valid: openai, groq, anthropic)", cfg.Provider)
	}
}

package bindings

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
)

// Supported generative-AI providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// AIClients holds the constructed generative-AI service clients. A
// client is only present when its API key was supplied; Provider names
// the default one request code should reach for.
type AIClients struct {
	Provider  string
	Anthropic *anthropic.Client
	OpenAI    *openai.Client
}

// newAIClients builds a client per supplied key and checks that the
// selected provider's key is among them.
func newAIClients(provider string, s Secrets) (AIClients, error) {
	out := AIClients{Provider: provider}

	if s.AnthropicKey != "" {
		c := anthropic.NewClient(anthropicopt.WithAPIKey(s.AnthropicKey))
		out.Anthropic = &c
	}
	if s.OpenAIKey != "" {
		c := openai.NewClient(openaiopt.WithAPIKey(s.OpenAIKey))
		out.OpenAI = &c
	}

	switch provider {
	case ProviderAnthropic:
		if out.Anthropic == nil {
			return AIClients{}, fmt.Errorf("bindings: provider %s selected but REWIND_ANTHROPIC_KEY is not set", provider)
		}
	case ProviderOpenAI:
		if out.OpenAI == nil {
			return AIClients{}, fmt.Errorf("bindings: provider %s selected but REWIND_OPENAI_KEY is not set", provider)
		}
	default:
		return AIClients{}, fmt.Errorf("bindings: unknown AI provider %q", provider)
	}
	return out, nil
}

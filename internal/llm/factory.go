package llm

import "fmt"

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Default model per provider.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// New builds the chat client for the named provider. An empty modelName
// picks the provider default; baseURL only applies to OpenAI-compatible
// endpoints. Unknown providers are a startup error, not a per-call one.
func New(provider, apiKey, baseURL, modelName string) (Client, error) {
	switch provider {
	case ProviderOpenAI, "":
		if modelName == "" {
			modelName = DefaultOpenAIModel
		}
		return NewOpenAI(apiKey, baseURL, modelName), nil
	case ProviderAnthropic:
		if modelName == "" {
			modelName = DefaultAnthropicModel
		}
		return NewAnthropic(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

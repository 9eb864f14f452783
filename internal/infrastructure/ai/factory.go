// Package ai provides the model provider factory and the provider variants.
//
// Providers form a closed set keyed on the provider part of a "model@provider"
// identifier:
//   - openai.com: official chat completions API via go-openai
//   - google.com: Gemini via the genai SDK
//   - anthropic.com: messages API over plain HTTP
//   - ollama: local OpenAI-compatible chat completions over plain HTTP
package ai

import (
	"fmt"
	"net/http"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Factory creates provider instances for model references.
// It maintains a single HTTP client shared across the HTTP providers.
type Factory struct {
	httpClient *http.Client
	endpoints  map[domain.ProviderKind]string
}

// NewFactory creates a factory. endpoints overrides the default base URL per provider.
func NewFactory(endpoints map[domain.ProviderKind]string) *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
		endpoints:  endpoints,
	}
}

// ForModel implements ports.ProviderFactory.
func (f *Factory) ForModel(ref domain.ModelRef, apiKey string) (ports.Provider, error) {
	if ref.Provider.RequiresKey() && apiKey == "" {
		return nil, &domain.ConfigurationError{
			Message: fmt.Sprintf("please add API key for '%s' to use model '%s'", ref.Provider, ref),
		}
	}
	endpoint := f.endpoints[ref.Provider]

	switch ref.Provider {
	case domain.ProviderOpenAI:
		return newOpenAIProvider(apiKey, endpoint), nil
	case domain.ProviderGoogle:
		return newGeminiProvider(apiKey, endpoint)
	case domain.ProviderAnthropic:
		return newHTTPProvider("anthropic", orDefault(endpoint, anthropicEndpoint), apiKey, f.httpClient, anthropicAdapter()), nil
	case domain.ProviderOllama:
		return newHTTPProvider("ollama", orDefault(endpoint, ollamaEndpoint), apiKey, f.httpClient, ollamaAdapter()), nil
	default:
		return nil, &domain.ConfigurationError{
			Message: fmt.Sprintf("unsupported provider '%s' in model '%s'", ref.Provider, ref),
		}
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)

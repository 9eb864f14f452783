package ai

// Endpoints used when the configuration carries no override.
const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	ollamaEndpoint    = "http://localhost:11434/v1/chat/completions"

	// Anthropic rejects requests without max_tokens.
	defaultAnthropicMaxTokens = 4096
)

// orDefault returns def when value is the zero value.
func orDefault[T comparable](value, def T) T {
	var zero T
	if value == zero {
		return def
	}
	return value
}

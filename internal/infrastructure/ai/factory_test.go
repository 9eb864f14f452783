package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

func history() []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: "You fix code."},
		{Role: domain.RoleUser, Content: "# build output\n```sh\nerror\n```\n"},
	}
}

func TestFactoryRequiresKey(t *testing.T) {
	f := NewFactory(nil)
	for _, kind := range []domain.ProviderKind{domain.ProviderOpenAI, domain.ProviderAnthropic, domain.ProviderGoogle} {
		_, err := f.ForModel(domain.ModelRef{ModelID: "m", Provider: kind}, "")
		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError for %s, got %v", kind, err)
		assert.Contains(t, cfgErr.Error(), string(kind))
	}

	p, err := f.ForModel(domain.ModelRef{ModelID: "llama3", Provider: domain.ProviderOllama}, "")
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := NewFactory(nil).ForModel(domain.ModelRef{ModelID: "m", Provider: "example.org"}, "key")
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestFactoryBuildsEveryProvider(t *testing.T) {
	f := NewFactory(nil)
	names := map[domain.ProviderKind]string{
		domain.ProviderOpenAI:    "openai",
		domain.ProviderAnthropic: "anthropic",
		domain.ProviderGoogle:    "gemini",
		domain.ProviderOllama:    "ollama",
	}
	for kind, want := range names {
		p, err := f.ForModel(domain.ModelRef{ModelID: "m", Provider: kind}, "key")
		require.NoError(t, err, kind)
		assert.Equal(t, want, p.Name())
	}
}

func TestAnthropicProviderSendsWholeHistory(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(`{"role":"assistant","content":[{"type":"text","text":"# Corrected file: a.c\n"},{"type":"text","text":"` + "```c\\nint a;\\n```" + `"}],"usage":{"input_tokens":12,"output_tokens":5}}`))
	}))
	defer server.Close()

	f := NewFactory(map[domain.ProviderKind]string{domain.ProviderAnthropic: server.URL})
	p, err := f.ForModel(domain.ModelRef{ModelID: "claude-test", Provider: domain.ProviderAnthropic}, "ak-test")
	require.NoError(t, err)

	completion, err := p.Complete(context.Background(), ports.CompletionRequest{
		Model:    domain.ModelRef{ModelID: "claude-test", Provider: domain.ProviderAnthropic},
		Messages: history(),
	})
	require.NoError(t, err)

	assert.Equal(t, "You fix code.", received["system"])
	assert.Equal(t, "claude-test", received["model"])
	assert.Len(t, received["messages"], 1)

	require.Len(t, completion.Choices, 1)
	assert.Equal(t, domain.RoleAssistant, completion.Choices[0].Role)
	assert.Equal(t, "# Corrected file: a.c\n```c\nint a;\n```", completion.Choices[0].Content)
	assert.Equal(t, domain.Usage{InputTokens: 12, OutputTokens: 5, TotalTokens: 17}, completion.Usage)
}

func TestOllamaProviderParsesChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "one"}},
				{"message": map[string]string{"role": "assistant", "content": "two"}},
			},
			"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
	defer server.Close()

	f := NewFactory(map[domain.ProviderKind]string{domain.ProviderOllama: server.URL})
	p, err := f.ForModel(domain.ModelRef{ModelID: "llama3", Provider: domain.ProviderOllama}, "")
	require.NoError(t, err)

	completion, err := p.Complete(context.Background(), ports.CompletionRequest{
		Model:    domain.ModelRef{ModelID: "llama3", Provider: domain.ProviderOllama},
		Messages: history(),
	})
	require.NoError(t, err)
	assert.Len(t, completion.Choices, 2)
	assert.Equal(t, 5, completion.Usage.TotalTokens)
}

func TestHTTPProviderReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewFactory(map[domain.ProviderKind]string{domain.ProviderAnthropic: server.URL})
	p, err := f.ForModel(domain.ModelRef{ModelID: "c", Provider: domain.ProviderAnthropic}, "k")
	require.NoError(t, err)
	_, err = p.Complete(context.Background(), ports.CompletionRequest{Messages: history()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestOpenAIProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req["model"])
		assert.Len(t, req["messages"], 2)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"fixed"}}],"usage":{"prompt_tokens":7,"completion_tokens":1,"total_tokens":8}}`))
	}))
	defer server.Close()

	f := NewFactory(map[domain.ProviderKind]string{domain.ProviderOpenAI: server.URL})
	p, err := f.ForModel(domain.ModelRef{ModelID: "gpt-test", Provider: domain.ProviderOpenAI}, "sk-test")
	require.NoError(t, err)

	completion, err := p.Complete(context.Background(), ports.CompletionRequest{
		Model:    domain.ModelRef{ModelID: "gpt-test", Provider: domain.ProviderOpenAI},
		Messages: history(),
	})
	require.NoError(t, err)
	require.Len(t, completion.Choices, 1)
	assert.Equal(t, "fixed", completion.Choices[0].Content)
	assert.Equal(t, domain.Usage{InputTokens: 7, OutputTokens: 1, TotalTokens: 8}, completion.Usage)
}

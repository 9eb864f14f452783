package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// completionInput is the provider-neutral request handed to adapters.
type completionInput struct {
	Model     string
	Messages  []domain.Message
	MaxTokens int
}

type httpProvider struct {
	name       string
	endpoint   string
	apiKey     string
	httpClient *http.Client
	adapter    providerAdapter
}

type providerAdapter struct {
	buildRequest  func(completionInput) ([]byte, error)
	parseResponse func([]byte) (domain.Completion, error)
	setHeaders    func(req *http.Request, apiKey string)
}

func newHTTPProvider(name, endpoint, apiKey string, client *http.Client, adapter providerAdapter) ports.Provider {
	return &httpProvider{
		name:       name,
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: client,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Complete(ctx context.Context, req ports.CompletionRequest) (domain.Completion, error) {
	requestBody, err := p.adapter.buildRequest(completionInput{
		Model:     req.Model.ModelID,
		Messages:  req.Messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("build request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.adapter.setHeaders(httpReq, p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("%s: HTTP request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return domain.Completion{}, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return domain.Completion{}, fmt.Errorf("%s: HTTP %d: %s", p.name, resp.StatusCode, strings.TrimSpace(responseBody.String()))
	}

	completion, err := p.adapter.parseResponse(responseBody.Bytes())
	if err != nil {
		return domain.Completion{}, fmt.Errorf("%s: parse response: %w", p.name, err)
	}
	return completion, nil
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
	}
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setOllamaHeaders,
	}
}

func buildAnthropicRequest(req completionInput) ([]byte, error) {
	systemPrompt, chatMessages := splitSystemMessages(req.Messages)

	request := map[string]interface{}{
		"model":      req.Model,
		"max_tokens": orDefault(req.MaxTokens, defaultAnthropicMaxTokens),
		"messages":   chatMessages,
	}
	if systemPrompt != "" {
		request["system"] = systemPrompt
	}

	return json.Marshal(request)
}

// splitSystemMessages separates system messages from chat messages, the
// messages API takes the system prompt as a separate field.
func splitSystemMessages(messages []domain.Message) (string, []map[string]interface{}) {
	var systemLines []string
	var chatMessages []map[string]interface{}

	for _, msg := range messages {
		if msg.Role == domain.RoleSystem {
			systemLines = append(systemLines, msg.Content)
			continue
		}
		chatMessages = append(chatMessages, map[string]interface{}{
			"role": string(msg.Role),
			"content": []map[string]string{
				{"type": "text", "text": msg.Content},
			},
		})
	}

	return strings.TrimSpace(strings.Join(systemLines, "\n")), chatMessages
}

func parseAnthropicResponse(body []byte) (domain.Completion, error) {
	var response struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return domain.Completion{}, err
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return domain.Completion{
		// the messages API answers with a single message
		Choices: []domain.Message{{
			Role:    domain.Role(orDefault(response.Role, string(domain.RoleAssistant))),
			Content: text.String(),
		}},
		Usage: domain.Usage{
			InputTokens:  response.Usage.InputTokens,
			OutputTokens: response.Usage.OutputTokens,
			TotalTokens:  response.Usage.InputTokens + response.Usage.OutputTokens,
		},
	}, nil
}

func setAnthropicHeaders(req *http.Request, apiKey string) {
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}

func setOllamaHeaders(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

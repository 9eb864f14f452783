package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

type openAIProvider struct {
	client *openai.Client
}

func newOpenAIProvider(apiKey, baseURL string) ports.Provider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAIProvider{client: openai.NewClientWithConfig(config)}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Complete(ctx context.Context, req ports.CompletionRequest) (domain.Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     req.Model.ModelID,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	completion := domain.Completion{
		Usage: domain.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	for _, choice := range resp.Choices {
		completion.Choices = append(completion.Choices, domain.Message{
			Role:    domain.Role(orDefault(choice.Message.Role, openai.ChatMessageRoleAssistant)),
			Content: choice.Message.Content,
		})
	}
	return completion, nil
}

package ai

import (
	"encoding/json"

	"github.com/doeshing/hansli-go/internal/domain"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func buildChatCompletionRequest(req completionInput) ([]byte, error) {
	messages := make([]chatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return json.Marshal(chatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
}

func parseChatCompletionResponse(body []byte) (domain.Completion, error) {
	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Completion{}, err
	}
	completion := domain.Completion{
		Usage: domain.Usage{
			InputTokens:  decoded.Usage.PromptTokens,
			OutputTokens: decoded.Usage.CompletionTokens,
			TotalTokens:  decoded.Usage.TotalTokens,
		},
	}
	for _, choice := range decoded.Choices {
		completion.Choices = append(completion.Choices, domain.Message{
			Role:    domain.Role(orDefault(choice.Message.Role, string(domain.RoleAssistant))),
			Content: choice.Message.Content,
		})
	}
	return completion, nil
}

package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

type geminiProvider struct {
	client *genai.Client
}

func newGeminiProvider(apiKey, baseURL string) (ports.Provider, error) {
	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Complete(ctx context.Context, req ports.CompletionRequest) (domain.Completion, error) {
	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case domain.RoleSystem:
			system = append(system, msg.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model.ModelID, contents, config)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("Gemini API call failed: %w", err)
	}

	var completion domain.Completion
	if usage := resp.UsageMetadata; usage != nil {
		completion.Usage = domain.Usage{
			InputTokens:  int(usage.PromptTokenCount),
			OutputTokens: int(usage.CandidatesTokenCount),
			TotalTokens:  int(usage.TotalTokenCount),
		}
	}
	for _, candidate := range resp.Candidates {
		var text strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part != nil {
					text.WriteString(part.Text)
				}
			}
		}
		completion.Choices = append(completion.Choices, domain.Message{
			Role:    domain.RoleAssistant,
			Content: text.String(),
		})
	}
	return completion, nil
}

// Package llm owns named model sessions: the persisted conversation, the
// provider it talks to and the token accounting.
package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Session is a conversation bound to one provider. Calls are serialized.
type Session struct {
	mu        sync.Mutex
	model     domain.ModelRef
	maxTokens int
	provider  ports.Provider
	conv      *domain.Conversation
	logger    ports.Logger
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.conv.Name
}

// Chat appends prompt, sends the whole history and records the single reply.
// On failure the history is left as it was before the call.
func (s *Session) Chat(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conv.Append(domain.RoleUser, prompt)
	completion, err := s.provider.Complete(ctx, ports.CompletionRequest{
		Model:     s.model,
		Messages:  s.conv.History(),
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		s.dropLast()
		return "", fmt.Errorf("%s: %w", s.provider.Name(), err)
	}
	if len(completion.Choices) != 1 {
		s.dropLast()
		return "", fmt.Errorf("%s: expected exactly one choice, got %d", s.provider.Name(), len(completion.Choices))
	}

	reply := completion.Choices[0]
	s.conv.Append(domain.RoleAssistant, reply.Content)
	s.conv.Account(completion.Usage)

	s.logger.Debug("chat exchange", map[string]interface{}{
		"session":       s.conv.Name,
		"model":         s.model.String(),
		"messages":      len(s.conv.Messages),
		"tokens_input":  completion.Usage.InputTokens,
		"tokens_output": completion.Usage.OutputTokens,
		"tokens_total":  s.conv.TokensTotal,
	})
	return reply.Content, nil
}

// Snapshot returns a copy of the conversation.
func (s *Session) Snapshot() domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := *s.conv
	snap.Messages = s.conv.History()
	return snap
}

func (s *Session) dropLast() {
	s.conv.Messages = s.conv.Messages[:len(s.conv.Messages)-1]
}

func (s *Session) save(store ports.ConversationStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.SaveConversation(s.conv)
}

var _ ports.ChatSession = (*Session)(nil)

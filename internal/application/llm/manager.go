package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Manager opens sessions for the configured model and persists them on Close.
type Manager struct {
	Model         domain.ModelRef
	MaxTokens     int
	Factory       ports.ProviderFactory
	Credentials   ports.CredentialStore
	Conversations ports.ConversationStore
	Preprompts    ports.PrepromptSource
	Logger        ports.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// Open returns the session for name, loading it on first use. The preprompt
// is inserted only when the stored history is empty.
func (m *Manager) Open(ctx context.Context, name string) (ports.ChatSession, error) {
	return m.open(ctx, name)
}

// Session is Open with the concrete type.
func (m *Manager) Session(ctx context.Context, name string) (*Session, error) {
	return m.open(ctx, name)
}

func (m *Manager) open(_ context.Context, name string) (*Session, error) {
	if m.Factory == nil || m.Credentials == nil || m.Conversations == nil || m.Preprompts == nil || m.Logger == nil {
		return nil, errors.New("llm.Manager dependencies not satisfied")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[name]; ok {
		return s, nil
	}

	apiKey, source := ResolveAPIKey(m.Credentials.Keys(), m.Model.Provider)
	provider, err := m.Factory.ForModel(m.Model, apiKey)
	if err != nil {
		return nil, err
	}

	conv, err := m.Conversations.LoadConversation(name)
	if err != nil {
		return nil, err
	}
	if len(conv.Messages) == 0 {
		preprompt, err := m.Preprompts.Preprompt(name)
		if err != nil {
			return nil, err
		}
		conv.AddPreprompt(preprompt)
	}

	m.Logger.Debug("session opened", map[string]interface{}{
		"session":    name,
		"model":      m.Model.String(),
		"provider":   provider.Name(),
		"key_source": source,
		"messages":   len(conv.Messages),
	})

	s := &Session{
		model:     m.Model,
		maxTokens: m.MaxTokens,
		provider:  provider,
		conv:      conv,
		logger:    m.Logger,
	}
	if m.sessions == nil {
		m.sessions = make(map[string]*Session)
	}
	m.sessions[name] = s
	return s, nil
}

// Reset forgets the session and deletes its persisted state.
func (m *Manager) Reset(name string) error {
	m.mu.Lock()
	delete(m.sessions, name)
	m.mu.Unlock()
	return m.Conversations.DeleteConversation(name)
}

// Close saves every open session.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, s := range m.sessions {
		if err := s.save(m.Conversations); err != nil {
			errs = append(errs, fmt.Errorf("save session %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// ResolveAPIKey returns the credential for kind from the key store, falling
// back to the provider's environment variable. source names where it came from.
func ResolveAPIKey(keys domain.APIKeys, kind domain.ProviderKind) (key, source string) {
	if key := keys.Get(string(kind)); key != "" {
		return key, "keystore"
	}
	if env := kind.KeyEnvVar(); env != "" {
		if key := os.Getenv(env); key != "" {
			return key, env
		}
	}
	return "", "none"
}

var _ ports.SessionOpener = (*Manager)(nil)

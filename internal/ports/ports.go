// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The feedback loop, the LLM session manager and the
// doctor service depend only on these interfaces; subprocess execution, model
// providers, YAML persistence and SQLite history live behind them.
package ports

import (
	"context"

	"github.com/doeshing/hansli-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.hansli/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CommandRegistry is the read-only view of command definitions.
type CommandRegistry interface {
	Lookup(name string) (domain.CommandDefinition, error)
	Chain(name string) ([]string, error)
	Names() []string
}

// CommandExecutor runs a command and its dependency chain against an input.
// A non-zero exit status yields *domain.CommandFailedError together with the result.
type CommandExecutor interface {
	Execute(ctx context.Context, req domain.ExecuteRequest) (domain.ExecutionResult, error)
}

// TranscriptCodec creates transcripts and reads labeled file sections back
// out of model replies.
type TranscriptCodec interface {
	NewTranscript() domain.Transcript
	ExtractSections(reply, label string) []domain.FileChange
}

// FileWriter replaces a file's contents in full or not at all.
type FileWriter interface {
	WriteFile(path, content string) error
}

// ProviderFactory builds provider instances for a parsed model reference.
type ProviderFactory interface {
	ForModel(ref domain.ModelRef, apiKey string) (Provider, error)
}

// CompletionRequest carries the whole ordered message history.
type CompletionRequest struct {
	Model     domain.ModelRef
	Messages  []domain.Message
	MaxTokens int
}

// Provider wraps one model backend's completion API.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (domain.Completion, error)
}

// ChatSession is a named conversation with a model.
type ChatSession interface {
	Name() string
	Chat(ctx context.Context, prompt string) (string, error)
}

// SessionOpener hands out chat sessions by name.
type SessionOpener interface {
	Open(ctx context.Context, name string) (ChatSession, error)
}

// ConversationStore persists conversations per session name.
type ConversationStore interface {
	LoadConversation(name string) (*domain.Conversation, error)
	SaveConversation(conv *domain.Conversation) error
	DeleteConversation(name string) error
}

// CredentialStore persists API keys by provider identifier.
type CredentialStore interface {
	Keys() domain.APIKeys
	SetAPIKey(name, value string)
	Save() error
}

// PrepromptSource returns the system prompt text for a session name.
type PrepromptSource interface {
	Preprompt(name string) (string, error)
}

// HistoryRepository stores run records.
type HistoryRepository interface {
	Save(record domain.RunRecord) error
	Records(limit int, search string) ([]domain.RunRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Renderer displays Markdown (transcripts, model replies) to the user.
type Renderer interface {
	Markdown(md string)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/doeshing/hansli-go/internal/application/doctor"
	"github.com/doeshing/hansli-go/internal/application/feedback"
	"github.com/doeshing/hansli-go/internal/application/llm"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/infrastructure/ai"
	"github.com/doeshing/hansli-go/internal/infrastructure/config"
	"github.com/doeshing/hansli-go/internal/infrastructure/executor"
	"github.com/doeshing/hansli-go/internal/infrastructure/history"
	"github.com/doeshing/hansli-go/internal/infrastructure/prompts"
	"github.com/doeshing/hansli-go/internal/infrastructure/registry"
	"github.com/doeshing/hansli-go/internal/infrastructure/state"
	"github.com/doeshing/hansli-go/internal/infrastructure/transcript"
	"github.com/doeshing/hansli-go/internal/pkg/filesystem"
	"github.com/doeshing/hansli-go/internal/pkg/logger"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Options controls container construction.
type Options struct {
	Debug bool
	// Stdout receives mirrored command output; os.Stdout when nil.
	Stdout io.Writer
	// StateDir overrides ~/.hansli (sessions, credentials, preprompts, history).
	StateDir string
	// ConfigPath overrides the configuration file location.
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Logger        *logger.ZapLogger
	Credentials   *state.CredentialStore
	Conversations *state.ConversationStore
	Preprompts    *prompts.Source
	// Sessions is nil when the configured model identifier is invalid; ModelErr says why.
	Sessions      *llm.Manager
	ModelErr      error
	Factory       *ai.Factory
	HistoryStore  *history.SQLiteStore
	DoctorService *doctor.Service
	Renderer      ports.Renderer
	Stdout        io.Writer
	// DecorateSessions wraps the session opener handed to services, e.g. to show progress.
	DecorateSessions func(ports.SessionOpener) ports.SessionOpener
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log, err := logger.New(opts.Debug)
	if err != nil {
		return nil, err
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	stateDir := opts.StateDir
	if stateDir == "" {
		stateDir = filesystem.AppDir()
	}
	credentials, err := state.LoadCredentials(filepath.Join(stateDir, "credentials.yaml"))
	if err != nil {
		return nil, err
	}
	conversations := state.NewConversationStore(filepath.Join(stateDir, "sessions"))
	preprompts := prompts.NewSource(filepath.Join(stateDir, "preprompts"))
	historyStore := history.NewSQLiteStore(filepath.Join(stateDir, "history", "history.db"))

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	c := &Container{
		Config:        cfg,
		ConfigLoader:  cfgLoader,
		Logger:        log,
		Credentials:   credentials,
		Conversations: conversations,
		Preprompts:    preprompts,
		Factory:       ai.NewFactory(endpoints(cfg)),
		HistoryStore:  historyStore,
		Stdout:        stdout,
	}

	ref, err := cfg.ModelRef()
	if err != nil {
		c.ModelErr = err
		log.Warn("model sessions unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		c.Sessions = &llm.Manager{
			Model:         ref,
			MaxTokens:     cfg.Preferences.MaxTokens,
			Factory:       c.Factory,
			Credentials:   credentials,
			Conversations: conversations,
			Preprompts:    preprompts,
			Logger:        log,
		}
	}

	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Commands: func(cfg domain.Config) (domain.CommandTable, string, error) {
			return config.LoadCommands("", cfg)
		},
		Credentials: credentials,
		Preprompts:  preprompts,
		History:     historyStore,
	}

	return c, nil
}

// SessionOpener returns the session manager, or an opener that reports why
// no session can be created.
func (c *Container) SessionOpener() ports.SessionOpener {
	var opener ports.SessionOpener = unavailableSessions{err: c.ModelErr}
	if c.Sessions != nil {
		opener = c.Sessions
	}
	if c.DecorateSessions != nil {
		opener = c.DecorateSessions(opener)
	}
	return opener
}

// Feedback builds the run service for the command table found via
// commandsPath (see config.LoadCommands).
func (c *Container) Feedback(commandsPath string) (*feedback.Service, error) {
	table, origin, err := config.LoadCommands(commandsPath, c.Config)
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(table, true)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("command table loaded", map[string]interface{}{
		"origin":   origin,
		"commands": reg.Names(),
	})

	model := ""
	if c.Sessions != nil {
		model = c.Sessions.Model.String()
	}
	return &feedback.Service{
		Executor: executor.NewScriptExecutor(reg, c.Config.Shell(), c.Stdout, c.Logger),
		Sessions: c.SessionOpener(),
		Codec:    transcript.Codec{},
		Files:    transcript.AtomicWriter{},
		Renderer: c.Renderer,
		History:  c.HistoryStore,
		Logger:   c.Logger,
		Model:    model,
	}, nil
}

// Close persists open sessions and credentials and releases resources.
// It must run on every exit path.
func (c *Container) Close() error {
	var errs []error
	if c.Sessions != nil {
		errs = append(errs, c.Sessions.Close())
	}
	errs = append(errs, c.Credentials.Save())
	errs = append(errs, c.HistoryStore.Close())
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}

func endpoints(cfg domain.Config) map[domain.ProviderKind]string {
	out := make(map[domain.ProviderKind]string)
	for _, kind := range domain.ProviderKinds() {
		if endpoint := cfg.Endpoint(kind); endpoint != "" {
			out[kind] = endpoint
		}
	}
	return out
}

type unavailableSessions struct {
	err error
}

func (u unavailableSessions) Open(context.Context, string) (ports.ChatSession, error) {
	if u.err != nil {
		return nil, u.err
	}
	return nil, &domain.ConfigurationError{Message: "no model configured"}
}

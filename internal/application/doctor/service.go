package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/doeshing/hansli-go/internal/application/llm"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// CommandLoader resolves the command table for a configuration.
type CommandLoader func(cfg domain.Config) (domain.CommandTable, string, error)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Commands       CommandLoader
	Credentials    ports.CredentialStore
	Preprompts     ports.PrepromptSource
	History        ports.HistoryRepository
	LookPath       func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if s.Commands != nil {
		checks = append(checks, commandCheck(cfg, s.Commands))
	}
	checks = append(checks, s.shellCheck(cfg))

	ref, err := cfg.ModelRef()
	if err != nil {
		checks = append(checks, fail("Model", err.Error()))
	} else {
		checks = append(checks, modelCheck(ref))
		if s.Credentials != nil {
			checks = append(checks, apiCheck(s.Credentials.Keys(), ref))
		}
	}

	if s.Preprompts != nil {
		checks = append(checks, s.prepromptCheck())
	}
	if s.History != nil {
		checks = append(checks, ok("History", s.History.Path()))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func commandCheck(cfg domain.Config, load CommandLoader) domain.HealthCheck {
	table, origin, err := load(cfg)
	if err != nil {
		return fail("Commands", err.Error())
	}
	if err := table.Validate(); err != nil {
		return fail("Commands", fmt.Sprintf("%s: %v", origin, err))
	}
	return ok("Commands", fmt.Sprintf("%s from %s", strings.Join(table.Names(), ", "), origin))
}

func (s *Service) shellCheck(cfg domain.Config) domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	shell := cfg.Shell()
	path, err := lookPath(shell)
	if err != nil {
		return fail("Shell", fmt.Sprintf("%s not found", shell))
	}
	return ok("Shell", path)
}

func modelCheck(ref domain.ModelRef) domain.HealthCheck {
	for _, kind := range domain.ProviderKinds() {
		if kind == ref.Provider {
			return ok("Model", ref.String())
		}
	}
	return fail("Model", fmt.Sprintf("unsupported provider %q", ref.Provider))
}

func apiCheck(keys domain.APIKeys, ref domain.ModelRef) domain.HealthCheck {
	if !ref.Provider.RequiresKey() {
		return ok("API key", fmt.Sprintf("%s needs none", ref.Provider))
	}
	if _, source := llm.ResolveAPIKey(keys, ref.Provider); source != "none" {
		return ok("API key", fmt.Sprintf("%s from %s", ref.Provider, source))
	}
	return warn("API key", fmt.Sprintf("missing for %s; run `hansli apikey %s <key>` or set %s",
		ref.Provider, ref.Provider, ref.Provider.KeyEnvVar()))
}

func (s *Service) prepromptCheck() domain.HealthCheck {
	var missing []string
	for _, name := range []string{domain.SessionAutofix, domain.SessionAutoimprove, domain.SessionChat} {
		if text, err := s.Preprompts.Preprompt(name); err != nil || strings.TrimSpace(text) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fail("Preprompts", "unresolved: "+strings.Join(missing, ", "))
	}
	return ok("Preprompts", "autofix, autoimprove, chat")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}

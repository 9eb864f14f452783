package config

import (
	"fmt"

	"github.com/doeshing/hansli-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if _, err := validateModel(cfg.Preferences.Model); err != nil {
		return err
	}
	if cfg.Preferences.MaxAttempts < 0 {
		return fmt.Errorf("preferences.max_attempts must be >= 0, got %d", cfg.Preferences.MaxAttempts)
	}
	if cfg.Preferences.MaxTokens < 0 {
		return fmt.Errorf("preferences.max_tokens must be >= 0, got %d", cfg.Preferences.MaxTokens)
	}
	if err := validateProviders(cfg.Providers); err != nil {
		return err
	}
	if err := cfg.Commands.Validate(); err != nil {
		return fmt.Errorf("commands: %w", err)
	}
	return nil
}

func validateModel(raw string) (domain.ModelRef, error) {
	if raw == "" {
		raw = domain.DefaultModel
	}
	ref, err := domain.ParseModelRef(raw)
	if err != nil {
		return domain.ModelRef{}, err
	}
	if !knownProvider(ref.Provider) {
		return domain.ModelRef{}, fmt.Errorf("preferences.model: unsupported provider %q", ref.Provider)
	}
	return ref, nil
}

func validateProviders(providers map[string]domain.ProviderConfig) error {
	for name := range providers {
		if !knownProvider(domain.ProviderKind(name)) {
			return fmt.Errorf("providers.%s: unknown provider", name)
		}
	}
	return nil
}

func knownProvider(kind domain.ProviderKind) bool {
	for _, known := range domain.ProviderKinds() {
		if kind == known {
			return true
		}
	}
	return false
}

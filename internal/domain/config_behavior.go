package domain

import (
	"fmt"
	"os"
)

// ModelRef parses the configured model identifier, falling back to DefaultModel.
func (c *Config) ModelRef() (ModelRef, error) {
	raw := c.Preferences.Model
	if raw == "" {
		raw = DefaultModel
	}
	return ParseModelRef(raw)
}

// SetModel validates and stores a new model identifier.
func (c *Config) SetModel(raw string) error {
	ref, err := ParseModelRef(raw)
	if err != nil {
		return err
	}
	if !isKnownProvider(ref.Provider) {
		return fmt.Errorf("unsupported provider %q", ref.Provider)
	}
	c.Preferences.Model = ref.String()
	return nil
}

// MaxAttempts returns the configured autofix budget with default fallback.
func (c *Config) MaxAttempts() int {
	if c.Preferences.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.Preferences.MaxAttempts
}

// Shell returns the shell used to launch generated scripts.
// Scripts are plain sh, so "auto" and "" resolve to DefaultShell. The login
// shell is used only when the setting is ShellFromEnv and $SHELL is set.
func (c *Config) Shell() string {
	switch shell := c.Execution.Shell; shell {
	case "", ShellAuto:
		return DefaultShell
	case ShellFromEnv:
		if env := os.Getenv("SHELL"); env != "" {
			return env
		}
		return DefaultShell
	default:
		return shell
	}
}

// HasCommand checks if a command with the given name exists.
func (c *Config) HasCommand(name string) bool {
	_, ok := c.Commands[name]
	return ok
}

// SetCommand adds or replaces a command definition.
func (c *Config) SetCommand(name string, def CommandDefinition) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if def.Shell == "" {
		return fmt.Errorf("command %s: shell template cannot be empty", name)
	}
	if c.Commands == nil {
		c.Commands = CommandTable{}
	}
	c.Commands[name] = def
	return nil
}

func isKnownProvider(kind ProviderKind) bool {
	for _, known := range ProviderKinds() {
		if known == kind {
			return true
		}
	}
	return false
}

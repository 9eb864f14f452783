package domain

import (
	"fmt"
	"strings"
)

// UnknownCommandError reports a command name missing from the registry.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("the given command is unknown: %s", e.Command)
}

// CyclicDependencyError reports a requires chain that loops back on itself.
type CyclicDependencyError struct {
	Chain []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic command dependency: %s", strings.Join(e.Chain, " -> "))
}

// CommandFailedError is the recoverable failure of a command subprocess.
type CommandFailedError struct {
	Command  string
	Output   string
	ExitCode int
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
}

// ConfigurationError reports missing or invalid settings, e.g. an absent API key.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// MalformedReplyError is returned when a model reply lacks the required file sections.
type MalformedReplyError struct {
	Label string
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("AI reply contains no %q sections", e.Label)
}

// AutofixExhaustedError is returned when the attempt budget is used up.
type AutofixExhaustedError struct {
	MaxAttempts int
}

func (e *AutofixExhaustedError) Error() string {
	return fmt.Sprintf("autofix did not succeed after %d attempts", e.MaxAttempts)
}

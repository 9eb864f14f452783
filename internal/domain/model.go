// Package domain defines core business entities and value objects for hansli.
//
// This file contains model and provider identifiers. A model is referenced as
// "modelname@provider", e.g. "gpt-4o-mini@openai.com".
package domain

import (
	"fmt"
	"strings"
)

// ProviderKind is the closed set of supported model backends.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai.com"
	ProviderAnthropic ProviderKind = "anthropic.com"
	ProviderGoogle    ProviderKind = "google.com"
	ProviderOllama    ProviderKind = "ollama"
)

// ProviderKinds lists the supported providers.
func ProviderKinds() []ProviderKind {
	return []ProviderKind{ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderOllama}
}

// KeyEnvVar is the conventional environment variable holding the provider's API key.
// Providers without authentication return "".
func (k ProviderKind) KeyEnvVar() string {
	switch k {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGoogle:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// RequiresKey reports whether the provider needs a credential.
func (k ProviderKind) RequiresKey() bool {
	return k != ProviderOllama
}

// ModelRef is a parsed "modelname@provider" identifier.
type ModelRef struct {
	ModelID  string
	Provider ProviderKind
}

// ParseModelRef splits a model identifier into model id and provider.
func ParseModelRef(raw string) (ModelRef, error) {
	parts := strings.Split(strings.TrimSpace(raw), "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ModelRef{}, &ConfigurationError{
			Message: fmt.Sprintf("invalid LLM identifier: '%s', must be of form 'modelname@provider.org'", raw),
		}
	}
	return ModelRef{ModelID: parts[0], Provider: ProviderKind(strings.ToLower(parts[1]))}, nil
}

func (m ModelRef) String() string {
	return m.ModelID + "@" + string(m.Provider)
}

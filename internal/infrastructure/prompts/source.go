// Package prompts resolves session preprompts from user overrides and the
// embedded defaults.
package prompts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/doeshing/hansli-go/assets"
	"github.com/doeshing/hansli-go/internal/ports"
)

// FallbackName is the embedded preprompt used for sessions without a dedicated one.
const FallbackName = "chat"

// Source looks up <dir>/<name>.md first, then the embedded preprompts/<name>.md,
// then the embedded fallback.
type Source struct {
	dir      string
	embedded fs.FS
}

// NewSource creates a source with the given override directory ("" disables overrides).
func NewSource(dir string) *Source {
	return &Source{dir: dir, embedded: assets.Preprompts}
}

// Preprompt implements ports.PrepromptSource.
func (s *Source) Preprompt(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) || name == "" {
		return "", fmt.Errorf("invalid preprompt name %q", name)
	}

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name+".md"))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read preprompt %s: %w", name, err)
		}
	}

	data, err := fs.ReadFile(s.embedded, path.Join("preprompts", name+".md"))
	if errors.Is(err, fs.ErrNotExist) && name != FallbackName {
		data, err = fs.ReadFile(s.embedded, path.Join("preprompts", FallbackName+".md"))
	}
	if err != nil {
		return "", fmt.Errorf("load preprompt %s: %w", name, err)
	}
	return string(data), nil
}

// Origin reports where the preprompt for name comes from: the override path or "embedded".
func (s *Source) Origin(name string) string {
	if s.dir != "" {
		candidate := filepath.Join(s.dir, name+".md")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "embedded"
}

// Dir returns the override directory.
func (s *Source) Dir() string {
	return s.dir
}

var _ ports.PrepromptSource = (*Source)(nil)

// Package state persists conversations and credentials as YAML files under
// the hansli state directory.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

var sessionNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ConversationStore keeps one <name>.yaml file per session.
type ConversationStore struct {
	dir string
}

// NewConversationStore stores sessions under dir.
func NewConversationStore(dir string) *ConversationStore {
	return &ConversationStore{dir: dir}
}

// LoadConversation returns the persisted conversation, or an empty one.
func (s *ConversationStore) LoadConversation(name string) (*domain.Conversation, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	conv := &domain.Conversation{Name: name}
	if err := readYAML(path, conv); err != nil {
		return nil, fmt.Errorf("load session %s: %w", name, err)
	}
	conv.Name = name
	return conv, nil
}

// SaveConversation writes the conversation to disk.
func (s *ConversationStore) SaveConversation(conv *domain.Conversation) error {
	path, err := s.path(conv.Name)
	if err != nil {
		return err
	}
	return writeYAML(path, conv, domain.SecureFilePermissions)
}

// DeleteConversation removes the persisted file. Missing files are fine.
func (s *ConversationStore) DeleteConversation(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Dir returns the sessions directory.
func (s *ConversationStore) Dir() string {
	return s.dir
}

func (s *ConversationStore) path(name string) (string, error) {
	if !sessionNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid session name %q", name)
	}
	return filepath.Join(s.dir, name+".yaml"), nil
}

// readYAML decodes path into out; a missing file leaves out untouched.
func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}

// writeYAML replaces path through a temp file in the same directory. perm is
// applied before any data is written, so an existing file with looser bits is
// replaced by one with exactly perm.
func writeYAML(path string, in interface{}, perm fs.FileMode) error {
	raw, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		return fail(err)
	}
	if _, err := tmp.Write(raw); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

var _ ports.ConversationStore = (*ConversationStore)(nil)

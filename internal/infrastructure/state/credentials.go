package state

import (
	"sync"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

type credentialsFile struct {
	APIKeys domain.APIKeys `yaml:"api_keys"`
}

// CredentialStore holds API keys loaded from a single YAML file.
type CredentialStore struct {
	path  string
	mu    sync.Mutex
	keys  domain.APIKeys
	dirty bool
}

// LoadCredentials reads path; a missing file yields an empty store.
func LoadCredentials(path string) (*CredentialStore, error) {
	var file credentialsFile
	if err := readYAML(path, &file); err != nil {
		return nil, err
	}
	if file.APIKeys == nil {
		file.APIKeys = domain.APIKeys{}
	}
	return &CredentialStore{path: path, keys: file.APIKeys}, nil
}

// Keys returns a copy of the stored keys.
func (s *CredentialStore) Keys() domain.APIKeys {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.APIKeys, len(s.keys))
	for k, v := range s.keys {
		out[k] = v
	}
	return out
}

// SetAPIKey sets or, for an empty value, removes a key.
func (s *CredentialStore) SetAPIKey(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys.Set(name, value)
	s.dirty = true
}

// Save writes the keys back with owner-only permissions. Unchanged stores
// are not rewritten.
func (s *CredentialStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := writeYAML(s.path, credentialsFile{APIKeys: s.keys}, domain.SecureFilePermissions); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Path returns the backing file.
func (s *CredentialStore) Path() string {
	return s.path
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

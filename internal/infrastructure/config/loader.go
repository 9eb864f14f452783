package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/hansli-go/assets"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/pkg/filesystem"
	"github.com/doeshing/hansli-go/internal/ports"
)

// ProjectCommandsFile is picked up from the working directory when no
// explicit command table is given.
const ProjectCommandsFile = "hansli.yaml"

// FileLoader loads YAML configuration from ~/.hansli/config.yaml (overridable via HANSLI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg, err := Defaults()
			if err != nil {
				return domain.Config{}, err
			}
			if err := writeDefault(path); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the configuration file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv("HANSLI_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// Save writes cfg back to the configuration file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Reset overwrites the configuration file with the embedded defaults.
func (l *FileLoader) Reset() error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return writeDefault(path)
}

// Backup copies the current configuration file to <path>.<timestamp>.bak.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	dest := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(dest, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return dest, nil
}

// Defaults parses the embedded default configuration.
func Defaults() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

// LoadCommands resolves the command table: the explicit path if given, else
// hansli.yaml in the working directory, else cfg.CommandsFile, else the
// commands block of cfg itself. It returns the table and where it came from.
func LoadCommands(explicit string, cfg domain.Config) (domain.CommandTable, string, error) {
	if explicit != "" {
		table, err := readCommandsFile(filesystem.ExpandPath(explicit))
		return table, explicit, err
	}
	if _, err := os.Stat(ProjectCommandsFile); err == nil {
		table, err := readCommandsFile(ProjectCommandsFile)
		return table, ProjectCommandsFile, err
	}
	if cfg.CommandsFile != "" {
		path := filesystem.ExpandPath(cfg.CommandsFile)
		table, err := readCommandsFile(path)
		return table, path, err
	}
	if len(cfg.Commands) == 0 {
		return nil, "", &domain.ConfigurationError{Message: "no commands configured"}
	}
	return cfg.Commands, "config", nil
}

func readCommandsFile(path string) (domain.CommandTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	var doc domain.CommandsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse commands %s: %w", path, err)
	}
	if len(doc.Commands) == 0 {
		return nil, &domain.ConfigurationError{Message: fmt.Sprintf("%s defines no commands", path)}
	}
	return doc.Commands, nil
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.Model == "" {
		cfg.Preferences.Model = domain.DefaultModel
	}
	if cfg.Preferences.MaxAttempts == 0 {
		cfg.Preferences.MaxAttempts = domain.DefaultMaxAttempts
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = domain.ShellAuto
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

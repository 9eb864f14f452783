package helpers

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/hansli-go/internal/app"
	configapp "github.com/doeshing/hansli-go/internal/application/config"
	"github.com/doeshing/hansli-go/internal/domain"
	configinfra "github.com/doeshing/hansli-go/internal/infrastructure/config"
)

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates and saves configuration with automatic backup
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := createBackupIfExists(loader); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

// createBackupIfExists creates a backup of the config file if it exists
func createBackupIfExists(loader *configinfra.FileLoader) error {
	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}
	return nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input
	}
	return parsed
}

// ConfigValue returns the value at a dotted key path such as
// "preferences.model" or "commands.build.shell".
func ConfigValue(cfg domain.Config, keyPath string) (interface{}, error) {
	cfgMap, err := configToMap(cfg)
	if err != nil {
		return nil, err
	}
	value, found := traverseNestedMap(cfgMap, splitKeyPath(keyPath))
	if !found {
		return nil, fmt.Errorf("key %s not found in configuration", keyPath)
	}
	return value, nil
}

// WithConfigValue returns a copy of cfg with the value at keyPath replaced.
// raw is parsed as YAML, so "5" becomes a number and "[a, b]" a list.
// Intermediate maps are created as needed.
func WithConfigValue(cfg domain.Config, keyPath, raw string) (domain.Config, error) {
	cfgMap, err := configToMap(cfg)
	if err != nil {
		return domain.Config{}, err
	}
	if !setNestedMapValue(cfgMap, splitKeyPath(keyPath), ParseYAMLValue(raw)) {
		return domain.Config{}, fmt.Errorf("unable to set key %q", keyPath)
	}
	return mapToConfig(cfgMap)
}

func splitKeyPath(keyPath string) []string {
	var keys []string
	for _, key := range strings.Split(keyPath, ".") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func setNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}

	current := root
	for _, key := range keyPath[:len(keyPath)-1] {
		child, isMap := current[key].(map[string]interface{})
		if !isMap {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}

	current[keyPath[len(keyPath)-1]] = value
	return true
}

func traverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	for _, key := range keyPath {
		node, isMap := data.(map[string]interface{})
		if !isMap {
			return nil, false
		}
		next, exists := node[key]
		if !exists {
			return nil, false
		}
		data = next
	}
	return data, true
}

// configToMap round-trips through YAML so keys match the file format.
func configToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	cfgMap := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &cfgMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return cfgMap, nil
}

func mapToConfig(cfgMap map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}

	var updated domain.Config
	if err := yaml.Unmarshal(raw, &updated); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return updated, nil
}

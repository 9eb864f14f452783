package domain

// Config mirrors ~/.hansli/config.yaml.
type Config struct {
	ConfigFormatVersion string                    `yaml:"config_format_version"`
	Preferences         Preferences               `yaml:"preferences"`
	Execution           ExecutionSettings         `yaml:"execution"`
	Providers           map[string]ProviderConfig `yaml:"providers,omitempty"`
	CommandsFile        string                    `yaml:"commands_file,omitempty"`
	Commands            CommandTable              `yaml:"commands"`
}

// Preferences captures user level toggles.
type Preferences struct {
	Model       string `yaml:"model"`
	MaxAttempts int    `yaml:"max_attempts"`
	MaxTokens   int    `yaml:"max_tokens,omitempty"`
}

// ExecutionSettings controls how generated scripts run.
type ExecutionSettings struct {
	Shell string `yaml:"shell"`
}

// ProviderConfig overrides provider defaults.
type ProviderConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Endpoint returns the configured endpoint override for kind, "" if none.
func (c Config) Endpoint(kind ProviderKind) string {
	if c.Providers == nil {
		return ""
	}
	return c.Providers[string(kind)].Endpoint
}

// CommandsDocument is the shape of a standalone command table file.
type CommandsDocument struct {
	Commands CommandTable `yaml:"commands"`
}

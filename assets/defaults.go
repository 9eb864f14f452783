package assets

import "embed"

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// Preprompts holds the built-in system prompts, one Markdown file per session name.
//
//go:embed preprompts/*.md
var Preprompts embed.FS

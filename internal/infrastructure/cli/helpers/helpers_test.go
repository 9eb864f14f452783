package helpers

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hansli-go/internal/domain"
)

func TestConfigValueRoundTrip(t *testing.T) {
	cfg := domain.Config{
		Preferences: domain.Preferences{Model: "gpt-4o-mini@openai.com", MaxAttempts: 3},
		Commands:    domain.CommandTable{"build": {Shell: "cc %(input)s -o %(output)s"}},
	}

	updated, err := WithConfigValue(cfg, "preferences.max_attempts", "5")
	require.NoError(t, err)
	updated, err = WithConfigValue(updated, "providers.ollama.endpoint", "http://gpu:11434/v1/chat/completions")
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Preferences.MaxAttempts)
	assert.Equal(t, "http://gpu:11434/v1/chat/completions", updated.Endpoint(domain.ProviderOllama))
	assert.Equal(t, 3, cfg.Preferences.MaxAttempts)

	value, err := ConfigValue(updated, "commands.build.shell")
	require.NoError(t, err)
	assert.Equal(t, "cc %(input)s -o %(output)s", value)

	_, err = ConfigValue(updated, "preferences.missing")
	assert.Error(t, err)
	_, err = ConfigValue(updated, "preferences.model.deeper")
	assert.Error(t, err)
	_, err = WithConfigValue(updated, " . ", "x")
	assert.Error(t, err)
}

func TestParseYAMLValueFallsBackToString(t *testing.T) {
	assert.Equal(t, 5, ParseYAMLValue("5"))
	assert.Equal(t, "cc %(input)s: [", ParseYAMLValue("cc %(input)s: ["))
}

func TestPrompts(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("yes\n\n  hi  \n"))

	assert.True(t, PromptForConfirmation(&out, reader, "Clear?"))
	assert.True(t, PromptForYesNo(&out, reader, "Keep?", true))
	line, err := ReadLine(&out, reader, ">> ")
	require.NoError(t, err)
	assert.Equal(t, "hi", line)
	line, err = ReadLine(&out, reader, ">> ")
	require.NoError(t, err)
	assert.Empty(t, line)
	assert.Equal(t, "Clear? [y/N]: Keep? [Y/n]: >> >> ", out.String())
}

package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hansli-go/internal/application/feedback"
	"github.com/doeshing/hansli-go/internal/domain"
)

func build(t *testing.T, configYAML string) (*Container, string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if configYAML != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o600))
	}
	c, err := BuildContainer(context.Background(), Options{
		Stdout:     &bytes.Buffer{},
		StateDir:   dir,
		ConfigPath: configPath,
	})
	require.NoError(t, err)
	return c, dir
}

func TestBuildContainerDefaults(t *testing.T) {
	c, dir := build(t, "")
	require.NotNil(t, c.Sessions)
	assert.Equal(t, domain.ProviderOpenAI, c.Sessions.Model.Provider)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	require.NoError(t, c.Close())
}

func TestCloseSavesCredentials(t *testing.T) {
	c, dir := build(t, "")
	c.Credentials.SetAPIKey("anthropic.com", "ak-test")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(filepath.Join(dir, "credentials.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "anthropic.com: ak-test")
}

func TestInvalidModelDefersError(t *testing.T) {
	c, _ := build(t, "preferences:\n  model: no-provider\n")
	defer c.Close()
	assert.Nil(t, c.Sessions)

	_, err := c.SessionOpener().Open(context.Background(), domain.SessionAutofix)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), "no-provider")
}

func TestFeedbackRunsConfiguredCommand(t *testing.T) {
	c, dir := build(t, "commands:\n  show:\n    shell: cat %(input)s\n")
	defer c.Close()
	input := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(input, []byte("hi\n"), 0o644))

	svc, err := c.Feedback("")
	require.NoError(t, err)
	report, err := svc.Run(context.Background(), feedback.Request{Command: "show", Input: input})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", report.Result.Output)

	records, err := c.HistoryStore.Records(0, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)
}

func TestFeedbackRejectsCyclicTable(t *testing.T) {
	c, _ := build(t, "commands:\n  a:\n    shell: x\n    requires: b\n  b:\n    shell: y\n    requires: a\n")
	defer c.Close()
	_, err := c.Feedback("")
	var cyc *domain.CyclicDependencyError
	assert.ErrorAs(t, err, &cyc)
}

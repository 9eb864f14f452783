package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hansli-go/internal/ports"
)

func TestRendererPlainOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewMarkdownRenderer(&buf)
	r.Markdown("# build output\n```sh\nok\n```")
	assert.Equal(t, "# build output\n```sh\nok\n```\n", buf.String())
}

func TestSpinnerRestarts(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf)
	for i := 0; i < 3; i++ {
		s.Start("working")
		s.Stop()
	}
	s.Stop()
	assert.Contains(t, buf.String(), "working")
}

type echoOpener struct{}

func (echoOpener) Open(_ context.Context, name string) (ports.ChatSession, error) {
	return echoSession(name), nil
}

type echoSession string

func (s echoSession) Name() string { return string(s) }
func (s echoSession) Chat(_ context.Context, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

func TestWithSpinnerPassThroughOffTerminal(t *testing.T) {
	opener := WithSpinner(echoOpener{}, &bytes.Buffer{})
	_, isEcho := opener.(echoOpener)
	assert.True(t, isEcho)

	wrapped := spinningOpener{opener: echoOpener{}, spinner: NewSpinner(&syncBuffer{})}
	session, err := wrapped.Open(context.Background(), "autofix")
	require.NoError(t, err)
	reply, err := session.Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", reply)
	assert.Equal(t, "autofix", session.Name())
}

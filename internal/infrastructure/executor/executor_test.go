package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/infrastructure/registry"
	"github.com/doeshing/hansli-go/internal/infrastructure/transcript"
	"github.com/doeshing/hansli-go/internal/pkg/logger"
)

func newTestExecutor(t *testing.T, table domain.CommandTable, stdout *bytes.Buffer) *ScriptExecutor {
	t.Helper()
	reg, err := registry.New(table, false)
	require.NoError(t, err)
	return NewScriptExecutor(reg, "/bin/sh", stdout, logger.NewNop())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExecuteGeneratesScriptOnce(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	writeFile(t, input, "hello\n")

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"copy": {Shell: "cp %(input)s %(output)s"},
	}, &stdout)

	res, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "copy", Input: input})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, filepath.Join(dir, "notes"), res.OutputPath)

	scriptPath := filepath.Join(dir, "copy-notes.sh")
	first, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	assert.Equal(t, "cp notes.txt notes\n", string(first))
	info, err := os.Stat(scriptPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.ScriptPermissions), info.Mode().Perm())

	_, err = exec.Execute(context.Background(), domain.ExecuteRequest{Command: "copy", Input: input})
	require.NoError(t, err)
	second, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	copied, err := os.ReadFile(filepath.Join(dir, "notes"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(copied))
}

func TestExecuteKeepsStaleScript(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.txt")
	writeFile(t, input, "x")

	var stdout bytes.Buffer
	first := newTestExecutor(t, domain.CommandTable{"say": {Shell: "echo first"}}, &stdout)
	_, err := first.Execute(context.Background(), domain.ExecuteRequest{Command: "say", Input: input})
	require.NoError(t, err)

	stdout.Reset()
	second := newTestExecutor(t, domain.CommandTable{"say": {Shell: "echo second"}}, &stdout)
	res, err := second.Execute(context.Background(), domain.ExecuteRequest{Command: "say", Input: input})
	require.NoError(t, err)
	assert.Equal(t, "first\n", res.Output)
	assert.Equal(t, "first\n", stdout.String())
}

func TestExecuteFollowsRequiresChain(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.txt.in")
	writeFile(t, input, "payload\n")

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"stage1": {Shell: "cp %(input)s %(output)s"},
		"stage2": {Shell: "cp %(input)s %(output)s", Requires: "stage1"},
		"stage3": {Shell: "cat %(input)s", Requires: "stage2"},
	}, &stdout)

	res, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "stage3", Input: input})
	require.NoError(t, err)
	assert.Equal(t, []string{"stage1", "stage2", "stage3"}, res.Chain)
	assert.Equal(t, "payload\n", res.Output)
	assert.Equal(t, filepath.Join(dir, "doc"), res.OutputPath)

	for _, name := range []string{"stage1-doc.txt.sh", "stage2-doc.sh", "stage3-doc.sh"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	// dependencies run quietly, only the top-level command echoes
	assert.Equal(t, "payload\n", stdout.String())
}

func TestExecuteVerboseMirrorsDependencies(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "x.c")
	writeFile(t, input, "")

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"dep": {Shell: "echo dep-output"},
		"top": {Shell: "echo top-output", Requires: "dep"},
	}, &stdout)

	_, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "top", Input: input, Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, "dep-output\ntop-output\n", stdout.String())
}

func TestExecuteDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "x.c")
	writeFile(t, input, "")

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"a": {Shell: "true", Requires: "b"},
		"b": {Shell: "true", Requires: "a"},
	}, &stdout)

	_, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "a", Input: input})
	var cycle *domain.CyclicDependencyError
	require.True(t, errors.As(err, &cycle), "expected cycle error, got %v", err)
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Chain)
}

func TestExecuteUnknownCommand(t *testing.T) {
	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"run": {Shell: "./%(input)s", Requires: "build"},
	}, &stdout)

	for _, name := range []string{"deploy", "run"} {
		_, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: name, Input: "prog.c"})
		var unknown *domain.UnknownCommandError
		require.True(t, errors.As(err, &unknown), "expected unknown command for %s, got %v", name, err)
	}
}

func TestExecuteFailureCarriesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.c")
	writeFile(t, input, "int main( {\n")

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"build": {Shell: "echo 'prog.c:1: error: expected )' >&2; exit 3"},
	}, &stdout)

	report := transcript.New()
	res, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "build", Input: input, Transcript: report})
	var failed *domain.CommandFailedError
	require.True(t, errors.As(err, &failed), "expected CommandFailedError, got %v", err)
	assert.Equal(t, "build", failed.Command)
	assert.Equal(t, 3, failed.ExitCode)
	assert.Contains(t, failed.Output, "expected )")
	assert.False(t, res.Success)
	assert.Equal(t, failed.Output, res.Output)

	md := report.Markdown()
	script := filepath.Join(dir, "build-prog.sh")
	scriptIdx := strings.Index(md, "# build command: "+script+"\n```sh\n")
	outputIdx := strings.Index(md, "# build output\n```sh\nprog.c:1: error: expected )\n```\n")
	inputIdx := strings.Index(md, "# build input: "+input+"\n```c\nint main( {\n```\n")
	require.GreaterOrEqual(t, scriptIdx, 0, md)
	require.Greater(t, outputIdx, scriptIdx, md)
	require.Greater(t, inputIdx, outputIdx, md)
}

func TestExecuteDependencyFailureStopsChain(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.c")
	writeFile(t, input, "")

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{
		"build": {Shell: "echo broken; exit 1"},
		"run":   {Shell: "echo ran", Requires: "build"},
	}, &stdout)

	res, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "run", Input: input})
	var failed *domain.CommandFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "build", failed.Command)
	assert.Equal(t, "broken\n", failed.Output)
	assert.NotContains(t, res.Output, "ran")
	assert.NoFileExists(t, filepath.Join(dir, "run-prog.sh"))
}

func TestExecuteBinaryInputOmittedFromTranscript(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(input, []byte{0x00, 0xff, 0x10}, 0o644))

	var stdout bytes.Buffer
	exec := newTestExecutor(t, domain.CommandTable{"size": {Shell: "wc -c < %(input)s"}}, &stdout)

	report := transcript.New()
	res, err := exec.Execute(context.Background(), domain.ExecuteRequest{Command: "size", Input: input, Transcript: report})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, report.Len())
	assert.NotContains(t, report.Markdown(), "size input")
}

func TestOutputPolicy(t *testing.T) {
	tests := []struct {
		name       string
		depth      int
		verbose    bool
		transcript bool
		capture    bool
		mirror     bool
	}{
		{"top level streams", 0, false, false, false, true},
		{"top level with transcript", 0, false, true, true, true},
		{"dependency quiet", 2, false, false, true, false},
		{"dependency verbose", 1, true, false, false, true},
		{"dependency verbose with transcript", 1, true, true, true, true},
		{"dependency with transcript", 1, false, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture, mirror := outputPolicy(tt.depth, tt.verbose, tt.transcript)
			assert.Equal(t, tt.capture, capture, "capture")
			assert.Equal(t, tt.mirror, mirror, "mirror")
		})
	}
}

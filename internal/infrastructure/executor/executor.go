// Package executor runs configured commands as generated shell scripts.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// ScriptExecutor resolves commands against the registry, satisfies their
// requires chain and runs one subprocess at a time.
type ScriptExecutor struct {
	registry ports.CommandRegistry
	shell    string
	stdout   io.Writer
	logger   ports.Logger
}

// NewScriptExecutor builds a new executor, shell defaults to /bin/sh and
// stdout to os.Stdout.
func NewScriptExecutor(registry ports.CommandRegistry, shell string, stdout io.Writer, logger ports.Logger) *ScriptExecutor {
	if shell == "" {
		shell = domain.DefaultShell
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &ScriptExecutor{
		registry: registry,
		shell:    shell,
		stdout:   stdout,
		logger:   logger,
	}
}

// Execute implements ports.CommandExecutor.
func (e *ScriptExecutor) Execute(ctx context.Context, req domain.ExecuteRequest) (domain.ExecutionResult, error) {
	return e.execute(ctx, req, req.Command, req.Input, nil)
}

func (e *ScriptExecutor) execute(ctx context.Context, req domain.ExecuteRequest, command, input string, stack []string) (domain.ExecutionResult, error) {
	for _, pending := range stack {
		if pending == command {
			chain := append(append([]string{}, stack...), command)
			return domain.ExecutionResult{Command: command}, &domain.CyclicDependencyError{Chain: chain}
		}
	}

	def, err := e.registry.Lookup(command)
	if err != nil {
		return domain.ExecutionResult{Command: command}, err
	}
	stack = append(stack, command)

	var chain []string
	if def.Requires != "" {
		dep, err := e.execute(ctx, req, def.Requires, input, stack)
		if err != nil {
			return dep, err
		}
		chain = dep.Chain
		input = dep.OutputPath
	}

	script := ScriptFor(command, input)
	created, err := script.Ensure(def)
	if err != nil {
		return domain.ExecutionResult{Command: command}, fmt.Errorf("write script %s: %w", script.Path, err)
	}
	if created {
		e.logger.Debug("generated script", map[string]interface{}{"command": command, "path": script.Path})
	}

	result, err := e.run(ctx, req, script, len(stack)-1)
	result.Chain = append(chain, command)
	return result, err
}

// outputPolicy decides whether subprocess output goes into the transcript
// (capture) and whether it is echoed to stdout (mirror).
func outputPolicy(depth int, verbose, transcript bool) (capture, mirror bool) {
	capture = transcript || (depth > 0 && !verbose)
	mirror = depth == 0 || verbose
	return capture, mirror
}

func (e *ScriptExecutor) run(ctx context.Context, req domain.ExecuteRequest, script Script, depth int) (domain.ExecutionResult, error) {
	transcript := req.Transcript
	capture, mirror := outputPolicy(depth, req.Verbose, transcript != nil)

	if transcript != nil {
		if err := transcript.AppendFile(script.Path, script.Command+" command"); err != nil {
			e.logger.Warn("script omitted from transcript", map[string]interface{}{"path": script.Path, "error": err.Error()})
		}
	}

	// Output is always buffered so failures can carry it.
	var buf bytes.Buffer
	var out io.Writer = &buf
	if mirror {
		out = io.MultiWriter(&buf, e.stdout)
	}

	c := exec.CommandContext(ctx, e.shell, "-c", script.Invocation())
	c.Dir = script.Dir
	c.Stdout = out
	c.Stderr = out

	e.logger.Info("running command", map[string]interface{}{
		"command": script.Command,
		"script":  script.Path,
		"depth":   depth,
	})

	start := time.Now()
	err := c.Run()
	result := domain.ExecutionResult{
		Success:    err == nil,
		Command:    script.Command,
		OutputPath: script.Output,
		Output:     buf.String(),
		Duration:   time.Since(start),
	}

	if transcript != nil {
		if capture {
			transcript.AppendBlock(result.Output, script.Command+" output", "sh")
		}
		if err := transcript.AppendFile(script.Input, script.Command+" input"); err != nil {
			e.logger.Debug("input omitted from transcript", map[string]interface{}{"path": script.Input, "error": err.Error()})
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		e.logger.Info("command failed", map[string]interface{}{"command": script.Command, "exit_code": result.ExitCode})
		return result, &domain.CommandFailedError{
			Command:  script.Command,
			Output:   result.Output,
			ExitCode: result.ExitCode,
		}
	}
	if err != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("launch %s: %w", script.Path, err)
	}
	return result, nil
}

var _ ports.CommandExecutor = (*ScriptExecutor)(nil)

package domain

import "time"

// ExecuteRequest asks the executor to run a command against an input path.
type ExecuteRequest struct {
	Command string
	Input   string
	Verbose bool
	// Transcript receives script, output and input sections when set.
	Transcript Transcript
}

// Transcript is the append-only section log filled during one execution attempt.
type Transcript interface {
	AppendBlock(content, title, lang string)
	AppendFile(path, label string) error
	Markdown() string
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Success    bool
	Command    string
	OutputPath string
	Output     string
	ExitCode   int
	Duration   time.Duration
	// Chain lists the commands that ran, dependencies first.
	Chain []string
}

// FileChange records one file rewritten from a model reply.
type FileChange struct {
	Path    string
	Content string
}

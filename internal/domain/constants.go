package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// ScriptPermissions lets the owner execute generated scripts (rwxr--r--)
	ScriptPermissions = 0o744
)

// Defaults
const (
	DefaultModel       = "gpt-4o-mini@openai.com"
	DefaultMaxAttempts = 3
	DefaultShell       = "/bin/sh"
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 120 * time.Second
)

// execution.shell values that are not a path.
const (
	ShellAuto    = "auto"
	ShellFromEnv = "$SHELL"
)

// Session names used by the feedback loop and chat command.
const (
	SessionAutofix     = "autofix"
	SessionAutoimprove = "autoimprove"
	SessionChat        = "mychat"
)

// Section labels in model replies.
const (
	LabelCorrectedFile = "Corrected file"
	LabelImprovedFile  = "Improved file"
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

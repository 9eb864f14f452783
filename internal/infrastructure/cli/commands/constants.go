package commands

import "github.com/doeshing/hansli-go/internal/domain"

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	envKeyEditor         = "EDITOR"

	TimestampFormat     = "2006-01-02 15:04:05"
	DefaultHistoryLimit = domain.DefaultHistoryLimit
	DefaultTopCommands  = 5
	modelTestPrompt     = "Reply with the single word: pong"
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrKeyRequired              = "--key is required"
)

// Success messages
const (
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNothingToImprove         = "Nothing to improve."
	MsgInitCancelled            = "Init cancelled."
	MsgCancelled                = "Cancelled."
)

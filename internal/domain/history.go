package domain

import "time"

// Run policies recorded in history.
const (
	PolicyRun         = "run"
	PolicyAutofix     = "autofix"
	PolicyAutoimprove = "autoimprove"
)

// RunRecord captures one `run` invocation.
type RunRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Input        string    `json:"input"`
	Policy       string    `json:"policy"`
	Model        string    `json:"model"`
	Success      bool      `json:"success"`
	Attempts     int       `json:"attempts"`
	FilesWritten int       `json:"files_written"`
	DurationMS   int64     `json:"duration_ms"`
	Error        string    `json:"error,omitempty"`
}

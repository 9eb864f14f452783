// Package transcript builds the Markdown transcript of an execution attempt and
// parses model replies written in the same section grammar:
//
//	# <title>
//	```<lang>
//	<body>
//	```
//
// The transcript is both the progress log shown to the user and the literal
// prompt body sent to the model.
package transcript

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/doeshing/hansli-go/internal/domain"
)

// ErrBinaryContent is returned by AppendFile for files that are not valid text.
var ErrBinaryContent = errors.New("file is not valid UTF-8 text")

// Report is an append-only sequence of Markdown sections.
type Report struct {
	buf      strings.Builder
	sections int
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// AppendBlock adds one section. The closing fence always starts its own line.
func (r *Report) AppendBlock(content, title, lang string) {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	fmt.Fprintf(&r.buf, "# %s\n```%s\n%s```\n", title, lang, content)
	r.sections++
}

// AppendFile reads path and adds it as a section titled "<label>: <path>".
// Binary files are rejected with ErrBinaryContent and leave the report untouched.
func (r *Report) AppendFile(path, label string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !IsText(data) {
		return fmt.Errorf("%s: %w", path, ErrBinaryContent)
	}
	title := path
	if label != "" {
		title = label + ": " + path
	}
	r.AppendBlock(string(data), title, Lang(path))
	return nil
}

// Markdown returns the accumulated text verbatim.
func (r *Report) Markdown() string {
	return r.buf.String()
}

// Len returns the number of sections appended so far.
func (r *Report) Len() int {
	return r.sections
}

// Lang derives the code block language tag from the file extension.
func Lang(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// IsText reports whether data decodes as UTF-8 without NUL bytes.
func IsText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) == -1
}

var _ domain.Transcript = (*Report)(nil)

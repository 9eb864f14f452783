package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"github.com/doeshing/hansli-go/internal/ports"
)

// MarkdownRenderer prints Markdown styled on terminals and verbatim elsewhere.
type MarkdownRenderer struct {
	out  io.Writer
	term *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for out. Styling is used only when
// out is a terminal and NO_COLOR is unset.
func NewMarkdownRenderer(out io.Writer) *MarkdownRenderer {
	r := &MarkdownRenderer{out: out}
	if isTerminal(out) && os.Getenv("NO_COLOR") == "" {
		term, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			r.term = term
		}
	}
	return r
}

// Markdown implements ports.Renderer.
func (r *MarkdownRenderer) Markdown(md string) {
	if r.term != nil {
		if rendered, err := r.term.Render(md); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	fmt.Fprint(r.out, md)
	if !strings.HasSuffix(md, "\n") {
		fmt.Fprintln(r.out)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var _ ports.Renderer = (*MarkdownRenderer)(nil)

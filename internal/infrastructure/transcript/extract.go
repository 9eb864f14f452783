package transcript

import (
	"regexp"
	"strings"

	"github.com/doeshing/hansli-go/internal/domain"
)

// ExtractSections returns every "# <label>: <path>" section of reply followed
// by a fenced code block, in order of appearance. Path and content are trimmed.
// The heading must start a line and carry the exact label. Only a fence alone
// on its own line closes a block, so inline ``` inside content is kept.
func ExtractSections(reply, label string) []domain.FileChange {
	pattern := regexp.MustCompile("(?ms)^# " + regexp.QuoteMeta(label) + ": ([^\n]*)\n```[^\n]*\n(.*?)\n?^```[ \t\r]*$")
	matches := pattern.FindAllStringSubmatch(reply, -1)
	changes := make([]domain.FileChange, 0, len(matches))
	for _, m := range matches {
		changes = append(changes, domain.FileChange{
			Path:    strings.TrimSpace(m[1]),
			Content: strings.TrimSpace(m[2]),
		})
	}
	return changes
}

// Render writes changes in the section grammar understood by ExtractSections.
func Render(label string, changes []domain.FileChange) string {
	r := New()
	for _, change := range changes {
		r.AppendBlock(change.Content+"\n", label+": "+change.Path, Lang(change.Path))
	}
	return r.Markdown()
}

package transcript

import (
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Codec binds the Markdown report format to its extraction counterpart.
type Codec struct{}

// NewTranscript returns an empty Report.
func (Codec) NewTranscript() domain.Transcript {
	return New()
}

// ExtractSections implements ports.TranscriptCodec.
func (Codec) ExtractSections(reply, label string) []domain.FileChange {
	return ExtractSections(reply, label)
}

// AtomicWriter writes files through WriteFile.
type AtomicWriter struct{}

// WriteFile implements ports.FileWriter.
func (AtomicWriter) WriteFile(path, content string) error {
	return WriteFile(path, content)
}

var (
	_ ports.TranscriptCodec = Codec{}
	_ ports.FileWriter      = AtomicWriter{}
)

package transcript

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/doeshing/hansli-go/internal/domain"
)

func TestExtractSectionsSingle(t *testing.T) {
	reply := "The include is missing.\n\n# Corrected file: prog.c\n```c\nint main(){return 0;}\n```\n"
	got := ExtractSections(reply, domain.LabelCorrectedFile)
	want := []domain.FileChange{{Path: "prog.c", Content: "int main(){return 0;}"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExtractSections mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSectionsMultipleInOrder(t *testing.T) {
	reply := "# Corrected file: src/a.h\n```c\n#define A 1\n```\n" +
		"some prose in between\n" +
		"# Corrected file: src/a.c  \n```c\n\n#include \"a.h\"\nint a = A;\n\n```\n"
	got := ExtractSections(reply, domain.LabelCorrectedFile)
	want := []domain.FileChange{
		{Path: "src/a.h", Content: "#define A 1"},
		{Path: "src/a.c", Content: "#include \"a.h\"\nint a = A;"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExtractSections mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSectionsRequiresExactLabel(t *testing.T) {
	reply := "# Improved file: a.c\n```c\nint a;\n```\n" +
		"## Corrected file: b.c\n```c\nint b;\n```\n" +
		"# Corrected filename: c.c\n```c\nint c;\n```\n" +
		"# corrected file: d.c\n```c\nint d;\n```\n"
	assert.Empty(t, ExtractSections(reply, domain.LabelCorrectedFile))

	improved := ExtractSections(reply, domain.LabelImprovedFile)
	assert.Equal(t, []domain.FileChange{{Path: "a.c", Content: "int a;"}}, improved)
}

func TestExtractSectionsNoFence(t *testing.T) {
	assert.Empty(t, ExtractSections("# Corrected file: a.c\nint a;\n", domain.LabelCorrectedFile))
	assert.Empty(t, ExtractSections("", domain.LabelImprovedFile))
}

func TestRenderExtractRoundTrip(t *testing.T) {
	sets := [][]domain.FileChange{
		{{Path: "prog.c", Content: "int main(){return 0;}"}},
		{
			{Path: "Makefile", Content: "all:\n\tcc main.c"},
			{Path: "dir/main.c", Content: "#include <stdio.h>\nint main(){puts(\"hi\");}"},
			{Path: "empty.txt", Content: ""},
		},
		{
			{Path: "README.md", Content: "Use a ```go``` fence inline.\nSecond line."},
			{Path: "b.py", Content: "print(1)"},
		},
	}
	for _, label := range []string{domain.LabelCorrectedFile, domain.LabelImprovedFile} {
		for _, changes := range sets {
			got := ExtractSections(Render(label, changes), label)
			if diff := cmp.Diff(changes, got); diff != "" {
				t.Fatalf("round trip mismatch for %q (-want +got):\n%s", label, diff)
			}
		}
	}
}

func TestExtractSectionsKeepsInlineFences(t *testing.T) {
	reply := "# Corrected file: doc.md\n```md\nRun `make` or ```sh make```.\nDone.\n```\n" +
		"# Corrected file: b.py\n```python\nprint(1)\n```  \n"
	got := ExtractSections(reply, domain.LabelCorrectedFile)
	want := []domain.FileChange{
		{Path: "doc.md", Content: "Run `make` or ```sh make```.\nDone."},
		{Path: "b.py", Content: "print(1)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExtractSections mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSectionsUnterminatedFenceIsDropped(t *testing.T) {
	reply := "# Corrected file: a.c\n```c\nint a; ```\n"
	assert.Empty(t, ExtractSections(reply, domain.LabelCorrectedFile))
}

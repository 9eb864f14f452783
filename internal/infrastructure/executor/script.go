package executor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/hansli-go/internal/domain"
)

// Script is the generated shell script for one (command, input) pair.
type Script struct {
	Command string
	// Path is the script file, next to the input.
	Path string
	// Dir is the working directory of the subprocess.
	Dir string
	// Input and Output are full paths; the template sees their basenames.
	Input  string
	Output string
}

// ScriptFor derives script and output paths for running command on input.
// The output path is the input with its extension stripped.
func ScriptFor(command, input string) Script {
	input = filepath.Clean(input)
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	noext := strings.TrimSuffix(base, filepath.Ext(base))
	return Script{
		Command: command,
		Path:    filepath.Join(dir, fmt.Sprintf("%s-%s.sh", command, noext)),
		Dir:     dir,
		Input:   input,
		Output:  filepath.Join(dir, noext),
	}
}

// Render substitutes the %(input)s and %(output)s placeholders with basenames.
func (s Script) Render(template string) string {
	replacer := strings.NewReplacer(
		"%(input)s", filepath.Base(s.Input),
		"%(output)s", filepath.Base(s.Output),
		"%%", "%",
	)
	return replacer.Replace(template)
}

// Ensure writes the rendered template unless the script already exists.
// An existing script is authoritative and never compared with def.
func (s Script) Ensure(def domain.CommandDefinition) (bool, error) {
	if _, err := os.Stat(s.Path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(s.Path, []byte(s.Render(def.Shell)+"\n"), domain.ScriptPermissions); err != nil {
		return false, err
	}
	// WriteFile is subject to umask
	if err := os.Chmod(s.Path, domain.ScriptPermissions); err != nil {
		return false, err
	}
	return true, nil
}

// Invocation is the argument handed to `shell -c`.
func (s Script) Invocation() string {
	return "./" + shellQuote(filepath.Base(s.Path))
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuote) == -1 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_.+,@%/=", r):
		return false
	}
	return true
}

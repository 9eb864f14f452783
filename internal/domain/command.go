package domain

import (
	"fmt"
	"sort"
)

// CommandDefinition mirrors one entry of the `commands` block.
type CommandDefinition struct {
	Shell    string `yaml:"shell"`
	Requires string `yaml:"requires,omitempty"`
}

// CommandTable maps command names to their definitions.
type CommandTable map[string]CommandDefinition

// Names returns the command names in sorted order.
func (t CommandTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain returns the dependency chain ending with name, dependencies first.
// It fails on unknown commands and on cycles in the requires graph.
func (t CommandTable) Chain(name string) ([]string, error) {
	var visited []string
	seen := make(map[string]bool)
	current := name
	for current != "" {
		if seen[current] {
			cycle := append(append([]string{}, visited...), current)
			return nil, &CyclicDependencyError{Chain: cycle}
		}
		def, ok := t[current]
		if !ok {
			return nil, &UnknownCommandError{Command: current}
		}
		seen[current] = true
		visited = append(visited, current)
		current = def.Requires
	}
	return reverseStrings(visited), nil
}

// Validate checks every command for missing shell templates, unknown
// dependencies and cycles.
func (t CommandTable) Validate() error {
	for _, name := range t.Names() {
		if t[name].Shell == "" {
			return fmt.Errorf("command %q: shell template is empty", name)
		}
		if _, err := t.Chain(name); err != nil {
			return err
		}
	}
	return nil
}

func reverseStrings(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

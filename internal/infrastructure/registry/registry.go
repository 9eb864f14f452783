// Package registry exposes the command table loaded from configuration.
package registry

import (
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Registry is an immutable view of command definitions.
type Registry struct {
	table domain.CommandTable
}

// New copies table into a registry. With validate set, dependency cycles and
// dangling requires entries are rejected up front.
func New(table domain.CommandTable, validate bool) (*Registry, error) {
	copied := make(domain.CommandTable, len(table))
	for name, def := range table {
		copied[name] = def
	}
	if validate {
		if err := copied.Validate(); err != nil {
			return nil, err
		}
	}
	return &Registry{table: copied}, nil
}

// Lookup returns the definition for name or *domain.UnknownCommandError.
func (r *Registry) Lookup(name string) (domain.CommandDefinition, error) {
	def, ok := r.table[name]
	if !ok {
		return domain.CommandDefinition{}, &domain.UnknownCommandError{Command: name}
	}
	return def, nil
}

// Chain returns the commands that run for name, dependencies first.
func (r *Registry) Chain(name string) ([]string, error) {
	return r.table.Chain(name)
}

// Names lists all commands in sorted order.
func (r *Registry) Names() []string {
	return r.table.Names()
}

var _ ports.CommandRegistry = (*Registry)(nil)

// Package examples provides the built-in demonstration programs.
package examples

import (
	"sort"

	"github.com/thomasrohde/simple/go/pkg/program"
)

// Registry holds registered example programs by name.
type Registry struct {
	programs map[string]func() *program.Program
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		programs: make(map[string]func() *program.Program),
	}
}

// Register adds an example. build is called on every Get so callers never
// share a program value.
func (r *Registry) Register(name string, build func() *program.Program) {
	r.programs[name] = build
}

// Get returns a fresh copy of the named example, or nil when it is unknown.
func (r *Registry) Get(name string) *program.Program {
	build, ok := r.programs[name]
	if !ok {
		return nil
	}
	p := build()
	p.Name = name
	return p
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.programs))
	for name := range r.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a fresh copy of every example, sorted by name.
func (r *Registry) All() []*program.Program {
	names := r.Names()
	out := make([]*program.Program, len(names))
	for i, name := range names {
		out[i] = r.Get(name)
	}
	return out
}

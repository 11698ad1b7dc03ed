package evaluator

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/diagnostics"
)

// Binding is a single name -> value pair of an environment.
type Binding struct {
	Name  string
	Value ast.Value
}

// Env maps variable names to terminal values.
//
// An Env is never modified after construction. With returns a new
// environment, so every configuration in a trace keeps its own snapshot.
// Bindings keep insertion order; rebinding a name keeps its position.
// The zero value and a nil *Env are both empty environments.
type Env struct {
	bindings []Binding
	index    map[string]int
}

// EmptyEnv returns an environment with no bindings.
func EmptyEnv() *Env {
	return &Env{}
}

// NewEnv builds an environment from bindings in order. Later bindings for
// the same name replace earlier ones.
func NewEnv(bindings ...Binding) *Env {
	env := EmptyEnv()
	for _, b := range bindings {
		env = env.With(b.Name, b.Value)
	}
	return env
}

// Lookup returns the value bound to name. It fails with an E_UNBOUND
// ReductionError when name is not bound.
func (e *Env) Lookup(name string) (ast.Value, error) {
	if e != nil {
		if i, ok := e.index[name]; ok {
			return e.bindings[i].Value, nil
		}
	}
	return nil, &ReductionError{
		Code:    diagnostics.EUnbound,
		Message: fmt.Sprintf("unbound variable '%s'", name),
		Node:    ast.Var(name),
		Env:     e,
	}
}

// Has reports whether name is bound.
func (e *Env) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.index[name]
	return ok
}

// With returns a new environment where name is bound to value.
// The receiver is left unchanged.
func (e *Env) With(name string, value ast.Value) *Env {
	n := e.Len()
	next := &Env{
		bindings: make([]Binding, n, n+1),
		index:    make(map[string]int, n+1),
	}
	if e != nil {
		copy(next.bindings, e.bindings)
		for k, v := range e.index {
			next.index[k] = v
		}
	}
	if i, ok := next.index[name]; ok {
		next.bindings[i].Value = value
		return next
	}
	next.index[name] = len(next.bindings)
	next.bindings = append(next.bindings, Binding{Name: name, Value: value})
	return next
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.bindings)
}

// Names returns the bound names in insertion order.
func (e *Env) Names() []string {
	names := make([]string, e.Len())
	for i := range names {
		names[i] = e.bindings[i].Name
	}
	return names
}

// Bindings returns a copy of the bindings in insertion order.
func (e *Env) Bindings() []Binding {
	out := make([]Binding, e.Len())
	if e != nil {
		copy(out, e.bindings)
	}
	return out
}

// String renders the environment as {x -> 2, y -> true}.
func (e *Env) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, b := range e.Bindings() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.Name)
		sb.WriteString(" -> ")
		sb.WriteString(b.Value.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

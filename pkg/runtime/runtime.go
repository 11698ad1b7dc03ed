// Package runtime provides the top-level SIMPLE runtime orchestrator.
package runtime

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thomasrohde/simple/go/pkg/examples"
	"github.com/thomasrohde/simple/go/pkg/machine"
	"github.com/thomasrohde/simple/go/pkg/program"
)

// ErrInvalidProgram is returned by Run for a program that does not hold
// exactly one root node.
var ErrInvalidProgram = errors.New("invalid program")

// Result holds the outcome of a program run.
type Result struct {
	Final machine.Configuration
	Steps int
	// Trace lists every configuration the run passed through. On failure it
	// ends at the last configuration reached before the error.
	Trace []machine.Configuration
}

// Runtime wires together the machine, the example registry, and the
// trace and logging sinks.
type Runtime struct {
	examples *examples.Registry
	logger   *zap.Logger
	maxSteps int
	trace    func(machine.Configuration)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithExamples sets the example registry.
func WithExamples(r *examples.Registry) Option {
	return func(rt *Runtime) {
		rt.examples = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithMaxSteps sets the step budget of every run. Zero means unlimited.
func WithMaxSteps(n int) Option {
	return func(rt *Runtime) {
		rt.maxSteps = n
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(machine.Configuration)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a new Runtime with the given options.
// By default the standard examples are registered and logging is disabled.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		examples: examples.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Examples returns the example registry.
func (rt *Runtime) Examples() *examples.Registry {
	return rt.examples
}

// Run reduces a program to normal form.
// A program with no root, or with both roots, fails with ErrInvalidProgram.
func (rt *Runtime) Run(ctx context.Context, p *program.Program) (*Result, error) {
	switch {
	case p.Expression == nil && p.Statement == nil:
		return nil, fmt.Errorf("%w: neither an expression nor a statement", ErrInvalidProgram)
	case p.Expression != nil && p.Statement != nil:
		return nil, fmt.Errorf("%w: both an expression and a statement", ErrInvalidProgram)
	}

	res := &Result{}
	log := rt.logger.With(zap.String("program", p.Name), zap.String("mode", string(p.Mode())))

	opts := []machine.Option{
		machine.WithLogger(log),
		machine.WithMaxSteps(rt.maxSteps),
		machine.WithTrace(func(c machine.Configuration) {
			res.Trace = append(res.Trace, c)
			if rt.trace != nil {
				rt.trace(c)
			}
		}),
	}

	var m *machine.Machine
	switch p.Mode() {
	case machine.ModeStatement:
		m = machine.NewStatement(p.Statement, p.Environment, opts...)
	default:
		m = machine.NewExpression(p.Expression, p.Environment, opts...)
	}

	log.Info("run started", zap.Stringer("root", p.Root()))
	final, err := m.Run(ctx)
	res.Final = final
	res.Steps = final.Step
	if err != nil {
		log.Info("run failed", zap.Int("steps", res.Steps), zap.Error(err))
		return res, err
	}
	log.Info("run finished", zap.Int("steps", res.Steps), zap.Stringer("result", final))
	return res, nil
}

// Example returns a fresh copy of a registered example.
func (rt *Runtime) Example(name string) (*program.Program, error) {
	p := rt.examples.Get(name)
	if p == nil {
		return nil, &UnknownExampleError{Name: name, Known: rt.examples.Names()}
	}
	return p, nil
}

// RunExample runs a registered example by name.
func (rt *Runtime) RunExample(ctx context.Context, name string) (*Result, error) {
	p, err := rt.Example(name)
	if err != nil {
		return nil, err
	}
	return rt.Run(ctx, p)
}

// UnknownExampleError reports a missing example name.
type UnknownExampleError struct {
	Name  string
	Known []string
}

func (e *UnknownExampleError) Error() string {
	return fmt.Sprintf("unknown example %q", e.Name)
}

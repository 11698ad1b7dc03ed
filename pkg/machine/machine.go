// Package machine drives a SIMPLE configuration to its normal form one
// reduction step at a time.
package machine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/diagnostics"
	"github.com/thomasrohde/simple/go/pkg/evaluator"
)

// Mode selects what a machine holds.
type Mode string

const (
	// ModeExpression holds an expression, reduced against a fixed environment.
	ModeExpression Mode = "expression"
	// ModeStatement holds a statement and threads the environment it produces.
	ModeStatement Mode = "statement"
)

// Configuration is the full state of a machine after Step steps.
// Exactly one of Expr and Stmt is set, depending on Mode.
type Configuration struct {
	Step int
	Mode Mode
	Expr ast.Expr
	Stmt ast.Stmt
	Env  *evaluator.Env
}

// Node returns the held expression or statement.
func (c Configuration) Node() ast.Node {
	if c.Mode == ModeStatement {
		return c.Stmt
	}
	return c.Expr
}

// Terminal reports whether the held node is in normal form.
func (c Configuration) Terminal() bool {
	return !evaluator.Reducible(c.Node())
}

// String renders the configuration as a trace line: the expression alone, or
// "<statement>, <environment>" in statement mode.
func (c Configuration) String() string {
	if c.Mode == ModeStatement {
		return fmt.Sprintf("%s, %s", c.Stmt, c.Env)
	}
	return c.Expr.String()
}

// Options configures a Machine.
type Options struct {
	// Trace receives every configuration Run passes through, in order.
	Trace func(Configuration)
	// MaxSteps stops Run with ErrStepLimit once that many steps were taken
	// without halting. Zero means no limit.
	MaxSteps int
	Logger   *zap.Logger
}

// Option is a functional option for configuring a Machine.
type Option func(*Options)

// WithTrace sets the trace callback.
func WithTrace(fn func(Configuration)) Option {
	return func(o *Options) {
		o.Trace = fn
	}
}

// WithMaxSteps sets the step budget. Zero disables it.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithLogger sets the logger used for per-step debug records.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Machine holds one configuration and advances it with Step.
type Machine struct {
	cur  Configuration
	opts Options
}

// NewExpression creates a machine in expression mode. A nil env is empty.
func NewExpression(expr ast.Expr, env *evaluator.Env, opts ...Option) *Machine {
	return newMachine(Configuration{Mode: ModeExpression, Expr: expr, Env: orEmpty(env)}, opts)
}

// NewStatement creates a machine in statement mode. A nil env is empty.
func NewStatement(stmt ast.Stmt, env *evaluator.Env, opts ...Option) *Machine {
	return newMachine(Configuration{Mode: ModeStatement, Stmt: stmt, Env: orEmpty(env)}, opts)
}

func newMachine(cfg Configuration, opts []Option) *Machine {
	m := &Machine{cur: cfg}
	for _, opt := range opts {
		opt(&m.opts)
	}
	if m.opts.Logger == nil {
		m.opts.Logger = zap.NewNop()
	}
	return m
}

func orEmpty(env *evaluator.Env) *evaluator.Env {
	if env == nil {
		return evaluator.EmptyEnv()
	}
	return env
}

// Current returns the held configuration.
func (m *Machine) Current() Configuration {
	return m.cur
}

// Halted reports whether the held node is terminal.
func (m *Machine) Halted() bool {
	return m.cur.Terminal()
}

// Steps returns the number of steps taken so far.
func (m *Machine) Steps() int {
	return m.cur.Step
}

// Step replaces the held configuration with its one-step successor.
// It fails with ErrInvalidStep when the machine has halted, and otherwise
// returns the reduction error unchanged, leaving the configuration as it was.
func (m *Machine) Step() error {
	if m.Halted() {
		return &evaluator.ReductionError{
			Code:    diagnostics.EInvalidStep,
			Message: fmt.Sprintf("machine halted at '%s'", m.cur),
			Node:    m.cur.Node(),
			Env:     m.cur.Env,
		}
	}

	next := Configuration{Step: m.cur.Step + 1, Mode: m.cur.Mode, Env: m.cur.Env}
	switch m.cur.Mode {
	case ModeExpression:
		expr, err := evaluator.ReduceExpr(m.cur.Expr, m.cur.Env)
		if err != nil {
			return err
		}
		next.Expr = expr
	case ModeStatement:
		stmt, env, err := evaluator.ReduceStmt(m.cur.Stmt, m.cur.Env)
		if err != nil {
			return err
		}
		next.Stmt, next.Env = stmt, env
	}

	m.opts.Logger.Debug("reduced",
		zap.Int("step", next.Step),
		zap.String("from", m.cur.Node().Kind()),
		zap.Stringer("to", next.Node()),
	)
	m.cur = next
	return nil
}

// Run emits the current configuration and steps until the machine halts,
// then emits the terminal configuration. Each configuration is emitted
// exactly once. On error the configurations already emitted stay valid and
// the error is returned without emitting anything further.
func (m *Machine) Run(ctx context.Context) (Configuration, error) {
	for !m.Halted() {
		m.emit()
		if err := ctx.Err(); err != nil {
			return m.cur, err
		}
		if m.opts.MaxSteps > 0 && m.cur.Step >= m.opts.MaxSteps {
			return m.cur, &evaluator.ReductionError{
				Code:    diagnostics.EStepLimit,
				Message: fmt.Sprintf("step limit exceeded (max %d)", m.opts.MaxSteps),
				Node:    m.cur.Node(),
				Env:     m.cur.Env,
			}
		}
		if err := m.Step(); err != nil {
			m.opts.Logger.Debug("reduction failed", zap.Int("step", m.cur.Step), zap.Error(err))
			return m.cur, err
		}
	}
	m.emit()
	m.opts.Logger.Debug("halted", zap.Int("steps", m.cur.Step), zap.Stringer("result", m.cur))
	return m.cur, nil
}

func (m *Machine) emit() {
	if m.opts.Trace != nil {
		m.opts.Trace(m.cur)
	}
}

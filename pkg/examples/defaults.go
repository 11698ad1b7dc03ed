package examples

import (
	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/evaluator"
	"github.com/thomasrohde/simple/go/pkg/program"
)

// RegisterDefaults registers the standard demonstration programs.
func RegisterDefaults(r *Registry) {
	r.Register("arithmetic", func() *program.Program {
		return &program.Program{
			Description: "leftmost-first reduction of 1 * 2 + 3 * 4",
			Environment: evaluator.EmptyEnv(),
			Expression: ast.NewAdd(
				ast.NewMultiply(ast.Num(1), ast.Num(2)),
				ast.NewMultiply(ast.Num(3), ast.Num(4)),
			),
		}
	})

	r.Register("comparison", func() *program.Program {
		return &program.Program{
			Description: "5 > 2 + 2 reduces to a boolean",
			Environment: evaluator.EmptyEnv(),
			Expression:  ast.NewMoreThan(ast.Num(5), ast.NewAdd(ast.Num(2), ast.Num(2))),
		}
	})

	r.Register("variables", func() *program.Program {
		return &program.Program{
			Description: "variables are looked up in the environment",
			Environment: evaluator.NewEnv(
				evaluator.Binding{Name: "x", Value: ast.Num(3)},
				evaluator.Binding{Name: "y", Value: ast.Num(4)},
			),
			Expression: ast.NewAdd(ast.Var("x"), ast.Var("y")),
		}
	})

	r.Register("assignment", func() *program.Program {
		return &program.Program{
			Description: "x = x + 1 rebinds x and collapses to do-nothing",
			Environment: evaluator.NewEnv(evaluator.Binding{Name: "x", Value: ast.Num(2)}),
			Statement:   ast.NewAssign("x", ast.NewAdd(ast.Var("x"), ast.Num(1))),
		}
	})

	r.Register("unbound", func() *program.Program {
		return &program.Program{
			Description: "z is not bound, so the run stops with an error",
			Environment: evaluator.EmptyEnv(),
			Expression:  ast.NewAdd(ast.Var("z"), ast.Num(1)),
		}
	})
}

// Default returns a registry with the standard examples registered.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

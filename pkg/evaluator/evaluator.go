// Package evaluator implements the small-step reduction rules of SIMPLE.
//
// Each rule performs exactly one step. Expressions reduce against an
// environment to a new expression; statements reduce to a new statement
// and a new environment. Binary expressions always reduce their left
// operand first and only touch the right operand once the left one is a
// value.
package evaluator

import (
	"errors"
	"fmt"
	"math"

	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/diagnostics"
)

// Sentinel errors matched with errors.Is against a *ReductionError.
var (
	ErrUnboundVariable = errors.New("unbound variable")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrInvalidStep     = errors.New("invalid step")
	ErrOverflow        = errors.New("integer overflow")
	ErrStepLimit       = errors.New("step limit exceeded")
)

// ReductionError is a fatal failure while reducing a node.
// Node is the node whose reduction failed and Env the environment it was
// reduced in.
type ReductionError struct {
	Code    string
	Message string
	Node    ast.Node
	Env     *Env
}

func (e *ReductionError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error matching Code.
func (e *ReductionError) Unwrap() error {
	switch e.Code {
	case diagnostics.EUnbound:
		return ErrUnboundVariable
	case diagnostics.EType:
		return ErrTypeMismatch
	case diagnostics.EInvalidStep:
		return ErrInvalidStep
	case diagnostics.EOverflow:
		return ErrOverflow
	case diagnostics.EStepLimit:
		return ErrStepLimit
	}
	return nil
}

func invalidStep(n ast.Node, env *Env) error {
	return &ReductionError{
		Code:    diagnostics.EInvalidStep,
		Message: fmt.Sprintf("%s '%s' is not reducible", n.Kind(), n),
		Node:    n,
		Env:     env,
	}
}

// Reducible reports whether n admits another reduction step.
// Number, Boolean and DoNothing are terminal; every other node is reducible,
// including binary expressions whose operands are already values.
func Reducible(n ast.Node) bool {
	switch n.(type) {
	case *ast.Number, *ast.Boolean, *ast.DoNothing:
		return false
	case *ast.Variable, *ast.Add, *ast.Multiply, *ast.MoreThan, *ast.Assign:
		return true
	}
	return false
}

// CountReducible returns the number of reducible nodes in the tree rooted
// at n. For a well-typed program this is the number of steps it takes to
// reach a terminal node.
func CountReducible(n ast.Node) int {
	count := 0
	if Reducible(n) {
		count = 1
	}
	switch node := n.(type) {
	case *ast.Add, *ast.Multiply, *ast.MoreThan:
		left, right, _, _ := ast.Operands(node.(ast.Expr))
		count += CountReducible(left) + CountReducible(right)
	case *ast.Assign:
		count += CountReducible(node.Expression)
	}
	return count
}

// ReduceExpr performs one reduction step on e.
func ReduceExpr(e ast.Expr, env *Env) (ast.Expr, error) {
	switch n := e.(type) {
	case *ast.Number, *ast.Boolean:
		return nil, invalidStep(e, env)

	case *ast.Variable:
		return env.Lookup(n.Name)

	case *ast.Add, *ast.Multiply, *ast.MoreThan:
		return reduceBinary(e, env)
	}
	return nil, &ReductionError{
		Code:    diagnostics.EInternal,
		Message: fmt.Sprintf("unknown expression node %T", e),
		Node:    e,
		Env:     env,
	}
}

func reduceBinary(e ast.Expr, env *Env) (ast.Expr, error) {
	left, right, op, _ := ast.Operands(e)

	if Reducible(left) {
		next, err := ReduceExpr(left, env)
		if err != nil {
			return nil, err
		}
		return ast.Rebuild(e, next, right), nil
	}
	if Reducible(right) {
		next, err := ReduceExpr(right, env)
		if err != nil {
			return nil, err
		}
		return ast.Rebuild(e, left, next), nil
	}

	lNum, lOk := left.(*ast.Number)
	rNum, rOk := right.(*ast.Number)
	if !lOk || !rOk {
		return nil, &ReductionError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("'%s' requires two numbers, got %s and %s", op, left.Kind(), right.Kind()),
			Node:    e,
			Env:     env,
		}
	}

	switch op {
	case ast.OpAdd:
		sum, ok := addInt64(lNum.Value, rNum.Value)
		if !ok {
			return nil, overflow(e, env)
		}
		return ast.Num(sum), nil
	case ast.OpMul:
		product, ok := mulInt64(lNum.Value, rNum.Value)
		if !ok {
			return nil, overflow(e, env)
		}
		return ast.Num(product), nil
	case ast.OpMoreThan:
		return ast.Bool(lNum.Value > rNum.Value), nil
	}
	panic(fmt.Sprintf("evaluator: unhandled operator %q", op))
}

func overflow(e ast.Expr, env *Env) error {
	return &ReductionError{
		Code:    diagnostics.EOverflow,
		Message: fmt.Sprintf("result of '%s' does not fit in 64 bits", e),
		Node:    e,
		Env:     env,
	}
}

func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	product := a * b
	if product/b != a {
		return 0, false
	}
	return product, true
}

// ReduceStmt performs one reduction step on s.
//
// An Assign whose expression is still reducible shrinks that expression and
// keeps env. Once the expression is a value the statement collapses to
// DoNothing and the returned environment carries the new binding.
func ReduceStmt(s ast.Stmt, env *Env) (ast.Stmt, *Env, error) {
	switch n := s.(type) {
	case *ast.DoNothing:
		return nil, nil, invalidStep(s, env)

	case *ast.Assign:
		if Reducible(n.Expression) {
			next, err := ReduceExpr(n.Expression, env)
			if err != nil {
				return nil, nil, err
			}
			return ast.NewAssign(n.Name, next), env, nil
		}
		value, ok := n.Expression.(ast.Value)
		if !ok {
			return nil, nil, &ReductionError{
				Code:    diagnostics.EType,
				Message: fmt.Sprintf("cannot bind %s to '%s'", n.Expression.Kind(), n.Name),
				Node:    s,
				Env:     env,
			}
		}
		return ast.Nothing(), env.With(n.Name, value), nil
	}
	return nil, nil, &ReductionError{
		Code:    diagnostics.EInternal,
		Message: fmt.Sprintf("unknown statement node %T", s),
		Node:    s,
		Env:     env,
	}
}

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/simple/go/pkg/ast"
)

func TestNodeKinds(t *testing.T) {
	nodes := []ast.Node{
		ast.Num(42),
		ast.Bool(true),
		ast.Var("x"),
		ast.NewAdd(ast.Num(1), ast.Num(2)),
		ast.NewMultiply(ast.Num(1), ast.Num(2)),
		ast.NewMoreThan(ast.Num(1), ast.Num(2)),
		ast.Nothing(),
		ast.NewAssign("x", ast.Num(1)),
	}

	expected := []string{
		"Number", "Boolean", "Variable", "Add",
		"Multiply", "MoreThan", "DoNothing", "Assign",
	}

	for i, node := range nodes {
		assert.Equal(t, expected[i], node.Kind(), "node %d", i)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"number", ast.Num(7), "7"},
		{"negative number", ast.Num(-3), "-3"},
		{"true", ast.Bool(true), "true"},
		{"false", ast.Bool(false), "false"},
		{"variable", ast.Var("x"), "x"},
		{"add", ast.NewAdd(ast.Var("x"), ast.Num(1)), "x + 1"},
		{"multiply", ast.NewMultiply(ast.Num(3), ast.Num(4)), "3 * 4"},
		{"more than", ast.NewMoreThan(ast.Num(5), ast.Bool(false)), "5 > false"},
		{
			"nested without parentheses",
			ast.NewAdd(
				ast.NewMultiply(ast.Num(1), ast.Num(2)),
				ast.NewMultiply(ast.Num(3), ast.Num(4)),
			),
			"1 * 2 + 3 * 4",
		},
		{
			"right nested mirrors tree shape",
			ast.NewMultiply(ast.Num(1), ast.NewAdd(ast.Num(2), ast.Num(3))),
			"1 * 2 + 3",
		},
		{"do nothing", ast.Nothing(), "does nothing"},
		{"assign", ast.NewAssign("x", ast.NewAdd(ast.Var("x"), ast.Num(1))), "x = x + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestInspect(t *testing.T) {
	assert.Equal(t, "<<1 + 2>>", ast.Inspect(ast.NewAdd(ast.Num(1), ast.Num(2))))
	assert.Equal(t, "<<does nothing>>", ast.Inspect(ast.Nothing()))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ast.Node
		want bool
	}{
		{"same number", ast.Num(1), ast.Num(1), true},
		{"different number", ast.Num(1), ast.Num(2), false},
		{"number vs boolean", ast.Num(1), ast.Bool(true), false},
		{"same variable", ast.Var("x"), ast.Var("x"), true},
		{"same tree", ast.NewAdd(ast.Var("x"), ast.Num(1)), ast.NewAdd(ast.Var("x"), ast.Num(1)), true},
		{"different operator", ast.NewAdd(ast.Num(1), ast.Num(2)), ast.NewMultiply(ast.Num(1), ast.Num(2)), false},
		{"more than vs multiply", ast.NewMoreThan(ast.Num(1), ast.Num(2)), ast.NewMultiply(ast.Num(1), ast.Num(2)), false},
		{"swapped children", ast.NewAdd(ast.Num(1), ast.Num(2)), ast.NewAdd(ast.Num(2), ast.Num(1)), false},
		{"distinct do nothing values", ast.Nothing(), &ast.DoNothing{}, true},
		{"do nothing vs assign", ast.Nothing(), ast.NewAssign("x", ast.Num(1)), false},
		{"same assign", ast.NewAssign("x", ast.Num(1)), ast.NewAssign("x", ast.Num(1)), true},
		{"assign different name", ast.NewAssign("x", ast.Num(1)), ast.NewAssign("y", ast.Num(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, ast.Equal(tt.b, tt.a))
		})
	}
}

func TestRebuildKeepsKind(t *testing.T) {
	orig := ast.NewMoreThan(ast.Num(1), ast.Num(2))
	got := ast.Rebuild(orig, ast.Num(3), ast.Num(4))

	assert.IsType(t, &ast.MoreThan{}, got)
	assert.Equal(t, "3 > 4", got.String())
	assert.Equal(t, "1 > 2", orig.String(), "original must be untouched")

	assert.Panics(t, func() { ast.Rebuild(ast.Num(1), ast.Num(2), ast.Num(3)) })
}

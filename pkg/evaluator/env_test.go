package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/evaluator"
)

func TestEnvLookup(t *testing.T) {
	e := evaluator.NewEnv(
		evaluator.Binding{Name: "x", Value: ast.Num(3)},
		evaluator.Binding{Name: "ok", Value: ast.Bool(true)},
	)

	v, err := e.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, ast.Num(3), v)

	v, err = e.Lookup("ok")
	require.NoError(t, err)
	assert.Equal(t, ast.Bool(true), v)

	_, err = e.Lookup("missing")
	assert.ErrorIs(t, err, evaluator.ErrUnboundVariable)
}

func TestEnvWithIsPersistent(t *testing.T) {
	base := evaluator.NewEnv(evaluator.Binding{Name: "x", Value: ast.Num(1)})
	next := base.With("x", ast.Num(2))
	grown := next.With("y", ast.Num(5))

	assert.Equal(t, "{x -> 1}", base.String())
	assert.Equal(t, "{x -> 2}", next.String())
	assert.Equal(t, "{x -> 2, y -> 5}", grown.String())
	assert.False(t, next.Has("y"))
	assert.True(t, grown.Has("y"))
}

func TestEnvRebindKeepsOrder(t *testing.T) {
	e := evaluator.NewEnv(
		evaluator.Binding{Name: "a", Value: ast.Num(1)},
		evaluator.Binding{Name: "b", Value: ast.Num(2)},
		evaluator.Binding{Name: "a", Value: ast.Num(3)},
	)

	assert.Equal(t, []string{"a", "b"}, e.Names())
	assert.Equal(t, "{a -> 3, b -> 2}", e.String())
	assert.Equal(t, 2, e.Len())
}

func TestEnvBindingsIsACopy(t *testing.T) {
	e := evaluator.NewEnv(evaluator.Binding{Name: "a", Value: ast.Num(1)})
	bs := e.Bindings()
	bs[0].Value = ast.Num(99)

	assert.Equal(t, "{a -> 1}", e.String())
}

func TestNilEnvIsEmpty(t *testing.T) {
	var e *evaluator.Env

	assert.Equal(t, 0, e.Len())
	assert.Equal(t, "{}", e.String())
	assert.Empty(t, e.Names())
	assert.False(t, e.Has("x"))

	_, err := e.Lookup("x")
	assert.ErrorIs(t, err, evaluator.ErrUnboundVariable)

	assert.Equal(t, "{x -> 1}", e.With("x", ast.Num(1)).String())
}

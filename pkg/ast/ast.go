// Package ast defines the node types of the SIMPLE language.
//
// Programs are literal trees of these nodes. Nodes are immutable: reduction
// never modifies a node in place, it builds a new tree.
package ast

import "fmt"

// Node is the interface implemented by all AST nodes.
// String renders the node in its display form.
type Node interface {
	fmt.Stringer
	Kind() string
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// Value is the terminal subset of Expr. Environments only ever bind values.
type Value interface {
	Expr
	valueNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// BinaryOp is the display symbol of a binary expression.
type BinaryOp string

const (
	OpAdd      BinaryOp = "+"
	OpMul      BinaryOp = "*"
	OpMoreThan BinaryOp = ">"
)

// --- Values ---

type Number struct {
	Value int64
}

func (n *Number) Kind() string { return "Number" }
func (n *Number) exprNode() {}
func (n *Number) valueNode() {}

type Boolean struct {
	Value bool
}

func (n *Boolean) Kind() string { return "Boolean" }
func (n *Boolean) exprNode() {}
func (n *Boolean) valueNode() {}

// --- Identifiers ---

type Variable struct {
	Name string
}

func (n *Variable) Kind() string { return "Variable" }
func (n *Variable) exprNode() {}

// --- Binary expressions ---

type Add struct {
	Left  Expr
	Right Expr
}

func (n *Add) Kind() string { return "Add" }
func (n *Add) exprNode() {}

type Multiply struct {
	Left  Expr
	Right Expr
}

func (n *Multiply) Kind() string { return "Multiply" }
func (n *Multiply) exprNode() {}

type MoreThan struct {
	Left  Expr
	Right Expr
}

func (n *MoreThan) Kind() string { return "MoreThan" }
func (n *MoreThan) exprNode() {}

// --- Statements ---

// DoNothing is the statement every program reduces to.
type DoNothing struct{}

func (n *DoNothing) Kind() string { return "DoNothing" }
func (n *DoNothing) stmtNode() {}

type Assign struct {
	Name       string
	Expression Expr
}

func (n *Assign) Kind() string { return "Assign" }
func (n *Assign) stmtNode() {}

// Operands returns the children and operator of a binary expression.
// ok is false for any other node.
func Operands(e Expr) (left, right Expr, op BinaryOp, ok bool) {
	switch n := e.(type) {
	case *Add:
		return n.Left, n.Right, OpAdd, true
	case *Multiply:
		return n.Left, n.Right, OpMul, true
	case *MoreThan:
		return n.Left, n.Right, OpMoreThan, true
	}
	return nil, nil, "", false
}

// Rebuild returns a new binary expression of the same kind as e with the
// given children. It panics if e is not a binary expression.
func Rebuild(e Expr, left, right Expr) Expr {
	switch e.(type) {
	case *Add:
		return &Add{Left: left, Right: right}
	case *Multiply:
		return &Multiply{Left: left, Right: right}
	case *MoreThan:
		return &MoreThan{Left: left, Right: right}
	}
	panic(fmt.Sprintf("ast: Rebuild called on %s", e.Kind()))
}

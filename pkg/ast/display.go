package ast

import (
	"strconv"
	"strings"
)

// DoNothingText is the display form of DoNothing.
const DoNothingText = "does nothing"

func (n *Number) String() string { return strconv.FormatInt(n.Value, 10) }
func (n *Boolean) String() string { return strconv.FormatBool(n.Value) }
func (n *Variable) String() string { return n.Name }
func (n *Add) String() string { return infix(n.Left, OpAdd, n.Right) }
func (n *Multiply) String() string { return infix(n.Left, OpMul, n.Right) }
func (n *MoreThan) String() string { return infix(n.Left, OpMoreThan, n.Right) }
func (n *DoNothing) String() string {
	return DoNothingText
}

func (n *Assign) String() string {
	return n.Name + " = " + n.Expression.String()
}

// infix renders children exactly as the tree nests them. No parentheses are
// added, so 1 + 2 * 3 may come from either grouping.
func infix(left Expr, op BinaryOp, right Expr) string {
	var sb strings.Builder
	sb.WriteString(left.String())
	sb.WriteByte(' ')
	sb.WriteString(string(op))
	sb.WriteByte(' ')
	sb.WriteString(right.String())
	return sb.String()
}

// Inspect returns the bracketed debugging form of a node, e.g. <<1 + 2>>.
func Inspect(n Node) string {
	return "<<" + n.String() + ">>"
}

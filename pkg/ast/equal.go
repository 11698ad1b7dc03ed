package ast

// Equal reports whether two nodes are structurally equal.
// Any two DoNothing statements are equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Add, *Multiply, *MoreThan:
		if a.Kind() != b.Kind() {
			return false
		}
		xl, xr, _, _ := Operands(x.(Expr))
		yl, yr, _, _ := Operands(b.(Expr))
		return Equal(xl, yl) && Equal(xr, yr)
	case *DoNothing:
		_, ok := b.(*DoNothing)
		return ok
	case *Assign:
		y, ok := b.(*Assign)
		return ok && x.Name == y.Name && Equal(x.Expression, y.Expression)
	}
	return false
}

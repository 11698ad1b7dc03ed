package ast

// Helpers for writing literal trees in Go code.

func Num(v int64) *Number { return &Number{Value: v} }
func Bool(v bool) *Boolean { return &Boolean{Value: v} }
func Var(name string) *Variable { return &Variable{Name: name} }

func NewAdd(left, right Expr) *Add { return &Add{Left: left, Right: right} }
func NewMultiply(left, right Expr) *Multiply { return &Multiply{Left: left, Right: right} }
func NewMoreThan(left, right Expr) *MoreThan { return &MoreThan{Left: left, Right: right} }

func NewAssign(name string, expr Expr) *Assign { return &Assign{Name: name, Expression: expr} }

// Nothing returns a DoNothing statement. All DoNothing values are equal.
func Nothing() *DoNothing { return &DoNothing{} }

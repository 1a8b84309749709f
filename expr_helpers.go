package goorm

// InList builds `x in (v1, v2, ...)` from plain values.
func InList(l any, values ...any) Expr {
	return In(l, NewExprList(values...))
}

// AscOf / DescOf build an Ordering over any value, promoting it to an
// Expr first.
func AscOf(v any) Ordering  { return NewOrdering(Val(v), Asc) }
func DescOf(v any) Ordering { return NewOrdering(Val(v), Desc) }

package goorm

import "strings"

// Expr is a node in the query AST. Every node renders a parameterized
// SQL fragment and the flat, left-to-right argument list that matches
// its placeholders one for one.
type Expr interface {
	Render() string
	Args() []any
}

// parenthesizing is implemented by nodes that must be wrapped in
// parentheses when embedded as an operand of another node. Literals,
// raw fragments, columns, model refs, and orderings do not implement
// it.
type parenthesizing interface {
	parenthesize()
}

type parenMarker struct{}

func (parenMarker) parenthesize() {}

func isParenthesizing(e Expr) bool {
	_, ok := e.(parenthesizing)
	return ok
}

func wrapIfNeeded(e Expr) string {
	sql := e.Render()
	if isParenthesizing(e) {
		return "(" + sql + ")"
	}
	return sql
}

// Val promotes any Go value to an Expr: if it already is one, it is
// kept; otherwise it is wrapped as a Literal.
func Val(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Literal{value: v}
}

// Literal renders as a single placeholder and contributes its value as
// the sole argument.
type Literal struct {
	value any
}

func NewLiteral(v any) Literal { return Literal{value: v} }

func (l Literal) Render() string { return "?" }
func (l Literal) Args() []any    { return []any{l.value} }
func (l Literal) isNull() bool   { return l.value == nil }

// Raw renders as the literal SQL string given, contributing no args.
type Raw struct {
	sql string
}

func NewRaw(sql string) Raw  { return Raw{sql: sql} }
func (r Raw) Render() string { return r.sql }
func (r Raw) Args() []any    { return nil }

// unary operator kinds.
type unaryKind int

const (
	Prefix unaryKind = iota
	Postfix
)

// UnaryOp is a prefix or postfix operator applied to a single child.
type UnaryOp struct {
	parenMarker
	Op    string
	Kind  unaryKind
	Child Expr
}

func (u UnaryOp) Render() string {
	childSQL := wrapIfNeeded(u.Child)
	if u.Kind == Prefix {
		return u.Op + " " + childSQL
	}
	return childSQL + " " + u.Op
}

func (u UnaryOp) Args() []any { return u.Child.Args() }

// Prefix unary constructors.
func Not(e Expr) UnaryOp { return UnaryOp{Op: "not", Kind: Prefix, Child: e} }
func Pos(e Expr) UnaryOp { return UnaryOp{Op: "+", Kind: Prefix, Child: e} }
func Neg(e Expr) UnaryOp { return UnaryOp{Op: "-", Kind: Prefix, Child: e} }

// Postfix unary constructors.
func IsNull(e Expr) UnaryOp  { return UnaryOp{Op: "isnull", Kind: Postfix, Child: e} }
func NotNull(e Expr) UnaryOp { return UnaryOp{Op: "notnull", Kind: Postfix, Child: e} }

// BinaryOp is an infix operator over two children, each promoted to an
// Expr if given as a plain value.
type BinaryOp struct {
	parenMarker
	Op    string
	Left  Expr
	Right Expr
}

func (b BinaryOp) Render() string {
	return wrapIfNeeded(b.Left) + " " + b.Op + " " + wrapIfNeeded(b.Right)
}

func (b BinaryOp) Args() []any {
	return append(append([]any{}, b.Left.Args()...), b.Right.Args()...)
}

func binary(op string, l, r any) Expr {
	return BinaryOp{Op: op, Left: Val(l), Right: Val(r)}
}

// isNullLiteral reports whether v is the constructed null expression:
// either Expr(nil) or a plain nil value promoted through Val.
func isNullLiteral(v any) bool {
	if v == nil {
		return true
	}
	if lit, ok := v.(Literal); ok {
		return lit.isNull()
	}
	return false
}

// Eq builds `=`, rerouting to `isnull` when the right side is null.
func Eq(l, r any) Expr {
	if isNullLiteral(r) {
		return IsNull(Val(l))
	}
	return binary("=", l, r)
}

// Ne builds `!=`, rerouting to `notnull` when the right side is null.
func Ne(l, r any) Expr {
	if isNullLiteral(r) {
		return NotNull(Val(l))
	}
	return binary("!=", l, r)
}

func Lt(l, r any) Expr     { return binary("<", l, r) }
func Gt(l, r any) Expr     { return binary(">", l, r) }
func Le(l, r any) Expr     { return binary("<=", l, r) }
func Ge(l, r any) Expr     { return binary(">=", l, r) }
func And(l, r any) Expr    { return binary("and", l, r) }
func Or(l, r any) Expr     { return binary("or", l, r) }
func Add(l, r any) Expr    { return binary("+", l, r) }
func Sub(l, r any) Expr    { return binary("-", l, r) }
func Mul(l, r any) Expr    { return binary("*", l, r) }
func Div(l, r any) Expr    { return binary("/", l, r) }
func Mod(l, r any) Expr    { return binary("%", l, r) }
func Like(l, r any) Expr   { return binary("like", l, r) }
func Glob(l, r any) Expr   { return binary("glob", l, r) }
func Match(l, r any) Expr  { return binary("match", l, r) }
func Regexp(l, r any) Expr { return binary("regexp", l, r) }

// In builds a `x in (...)` predicate; rhs is the Parenthesizing
// ExprList (or a Select subquery, which parenthesizes itself).
func In(l any, rhs Expr) Expr { return binary("in", l, rhs) }

// ExprList is a comma-joined sequence of expressions. It doubles as a
// grouped expression for IN lists and NOT-of-list usage, and is itself
// Parenthesizing.
type ExprList struct {
	parenMarker
	Items []Expr
}

func NewExprList(values ...any) ExprList {
	items := make([]Expr, len(values))
	for i, v := range values {
		items[i] = Val(v)
	}
	return ExprList{Items: items}
}

func (l ExprList) Append(v any) ExprList {
	return ExprList{Items: append(append([]Expr{}, l.Items...), Val(v))}
}

func (l ExprList) Render() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = wrapIfNeeded(item)
	}
	return strings.Join(parts, ", ")
}

func (l ExprList) Args() []any {
	var args []any
	for _, item := range l.Items {
		args = append(args, item.Args()...)
	}
	return args
}

// orderDirection distinguishes ascending from descending orderings.
type orderDirection int

const (
	Asc orderDirection = iota
	Desc
)

// Ordering wraps a child expression with an `asc`/`desc` suffix. It
// never parenthesizes.
type Ordering struct {
	Child     Expr
	Direction orderDirection
}

func NewOrdering(e Expr, dir orderDirection) Ordering {
	return Ordering{Child: e, Direction: dir}
}

func (o Ordering) Render() string {
	if o.Direction == Desc {
		return o.Child.Render() + " desc"
	}
	return o.Child.Render() + " asc"
}

func (o Ordering) Args() []any { return o.Child.Args() }

package goorm

// Column is a leaf Expr referencing a named column, optionally bound
// to the ModelMeta that owns it. Two Columns are equal by identity
// (Go pointer identity) -- dirty-tracking and join predicates key maps
// by *Column, never by name.
type Column struct {
	Name      string
	Attr      string
	Model     *ModelMeta
	Primary   bool
	Adapter   func(any) any // transforms outbound values on write
	Converter func(any) any // transforms inbound values on read
}

// Render renders `"alias_or_table"."name"` when bound to a model, or
// a bare `"name"` when unbound.
func (c *Column) Render() string {
	if c.Model == nil {
		return `"` + c.Name + `"`
	}
	return `"` + c.Model.qualifier() + `".` + `"` + c.Name + `"`
}

func (c *Column) Args() []any { return nil }

// bareName renders a column with no table qualifier, regardless of
// whether it is bound to a model -- the form INSERT's column list and
// UPDATE's SET targets use, as opposed to the qualified form used
// everywhere a column appears in a predicate or projection.
type bareName struct{ name string }

func (b bareName) Render() string { return `"` + b.name + `"` }
func (b bareName) Args() []any    { return nil }

// Bare returns c rendered without its table qualifier.
func (c *Column) Bare() Expr { return bareName{name: c.Name} }

// ColumnOption configures a Column at declaration time.
type ColumnOption func(*Column)

// Primary marks a declared column as participating in the identity
// predicate.
func Primary() ColumnOption {
	return func(c *Column) { c.Primary = true }
}

// WithAdapter sets the outbound value transform applied on save.
func WithAdapter(fn func(any) any) ColumnOption {
	return func(c *Column) { c.Adapter = fn }
}

// WithConverter sets the inbound value transform applied on read.
func WithConverter(fn func(any) any) ColumnOption {
	return func(c *Column) { c.Converter = fn }
}

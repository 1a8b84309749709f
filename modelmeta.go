package goorm

import (
	"sync"

	"github.com/duke-git/lancet/v2/slice"
)

// ModelRef is a FROM-clause table source: a bare `"table"` or, when
// aliased, `"table" "alias"`. It never parenthesizes and carries no
// args.
type ModelRef struct {
	meta *ModelMeta
}

func (r ModelRef) Render() string {
	if r.meta.Alias == "" {
		return `"` + r.meta.Table + `"`
	}
	return `"` + r.meta.Table + `" "` + r.meta.Alias + `"`
}

func (r ModelRef) Args() []any { return nil }

// registry is the global name -> ModelMeta table populated at
// registration time. Re-registering a name overwrites the prior entry.
var registry sync.Map // map[string]*ModelMeta

// LookupModel resolves a registered model by name.
func LookupModel(name string) (*ModelMeta, bool) {
	v, ok := registry.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*ModelMeta), true
}

// ModelMeta is a model's static metadata: its table, optional alias,
// its columns (own + inherited, in declaration order), its primaries,
// and the implicit oid column, which is kept apart from Columns.
type ModelMeta struct {
	Name      string
	Table     string
	Alias     string
	Columns   []*Column
	Primaries []*Column
	OID       *Column
	factory   func() Entity
}

func (m *ModelMeta) qualifier() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Table
}

// NewModel declares a model's metadata and registers it globally by
// name. The implicit "oid" column is created here and held in OID,
// outside Columns; allColumns places it after every declared column.
func NewModel(name, table string) *ModelMeta {
	m := &ModelMeta{Name: name, Table: table}
	m.OID = &Column{Name: "oid", Attr: "OID", Model: m}
	registry.Store(name, m)
	return m
}

// Bind attaches the factory used by the row materializer and by
// relationship reads to construct a fresh instance of this model.
func (m *ModelMeta) Bind(factory func() Entity) *ModelMeta {
	m.factory = factory
	return m
}

// Inherit clones every column of base onto m, rebinding each clone's
// Model to m. Must be called before m's own Col declarations so that
// base-class columns sort first.
func (m *ModelMeta) Inherit(base *ModelMeta) *ModelMeta {
	for _, c := range base.Columns {
		m.addColumn(&Column{
			Name:      c.Name,
			Attr:      c.Attr,
			Model:     m,
			Primary:   c.Primary,
			Adapter:   c.Adapter,
			Converter: c.Converter,
		})
	}
	return m
}

// Col declares a column, binding it to m and appending it to m's
// column list (and to Primaries, if marked Primary). If a column with
// the same Attr already exists (inherited from a base and redeclared
// here), the most-derived binding wins and the inherited one is
// dropped.
func (m *ModelMeta) Col(name string, opts ...ColumnOption) *Column {
	c := &Column{Name: name, Attr: name, Model: m}
	for _, opt := range opts {
		opt(c)
	}
	m.addColumn(c)
	return c
}

func (m *ModelMeta) addColumn(c *Column) {
	m.Columns = slice.Filter(m.Columns, func(_ int, existing *Column) bool {
		return existing.Attr != c.Attr
	})
	m.Primaries = slice.Filter(m.Primaries, func(_ int, existing *Column) bool {
		return existing.Attr != c.Attr
	})
	m.Columns = append(m.Columns, c)
	if c.Primary {
		m.Primaries = append(m.Primaries, c)
	}
}

// allColumns returns every declared column followed by the implicit
// oid column, the fixed order row materialization and row projection
// both rely on.
func (m *ModelMeta) allColumns() []*Column {
	cols := make([]*Column, 0, len(m.Columns)+1)
	cols = append(cols, m.Columns...)
	cols = append(cols, m.OID)
	return cols
}

// ColByAttr finds a column by its user-facing attribute name.
func (m *ModelMeta) ColByAttr(attr string) *Column {
	for _, c := range m.Columns {
		if c.Attr == attr {
			return c
		}
	}
	if attr == m.OID.Attr {
		return m.OID
	}
	return nil
}

// C returns m's own binding of a column declared on another
// (un-aliased) ModelMeta -- the "a1.column1" access pattern for a
// self-join alias, looked up by Attr.
func (m *ModelMeta) C(base *Column) *Column {
	if c := m.ColByAttr(base.Attr); c != nil {
		return c
	}
	return base
}

// Ref renders this model as a FROM-clause source.
func (m *ModelMeta) Ref() ModelRef { return ModelRef{meta: m} }

// As produces a new, separately registered ModelMeta aliased for a
// self-join, with every column cloned and rebound to the alias.
func (m *ModelMeta) As(alias string) *ModelMeta {
	aliased := &ModelMeta{
		Name:    m.Name + "_as_" + alias,
		Table:   m.Table,
		Alias:   alias,
		factory: m.factory,
	}
	aliased.OID = &Column{Name: m.OID.Name, Attr: m.OID.Attr, Model: aliased}
	for _, c := range m.Columns {
		clone := &Column{
			Name:      c.Name,
			Attr:      c.Attr,
			Model:     aliased,
			Primary:   c.Primary,
			Adapter:   c.Adapter,
			Converter: c.Converter,
		}
		aliased.Columns = append(aliased.Columns, clone)
		if clone.Primary {
			aliased.Primaries = append(aliased.Primaries, clone)
		}
	}
	registry.Store(aliased.Name, aliased)
	return aliased
}

// Find is the model-level entry point: it returns a lazy ModelSelect
// over every column of m.
func (m *ModelMeta) Find(preds ...Expr) (*ModelSelect, error) {
	ms, err := NewModelSelect([]*ModelMeta{m})
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return ms, nil
	}
	return ms.Find(preds[0], preds[1:]...), nil
}

// New constructs a fresh, unsaved instance of this model via its
// bound factory.
func (m *ModelMeta) New() Entity {
	return m.factory()
}

package goorm

// ModelSelect wraps *Select, projecting every model's columns and
// materializing rows back into Entity values instead of raw tuples.
// It shadows the combinators that would otherwise hand back a bare
// *Select so chained calls keep returning *ModelSelect.
type ModelSelect struct {
	*Select
	models []*ModelMeta
}

func modelSources(models []*ModelMeta) Expr {
	items := make([]Expr, len(models))
	for i, m := range models {
		items[i] = m.Ref()
	}
	return ExprList{Items: items}
}

func modelWhat(models []*ModelMeta) Expr {
	var items []Expr
	for _, m := range models {
		for _, c := range m.allColumns() {
			items = append(items, c)
		}
	}
	return ExprList{Items: items}
}

// NewModelSelect builds a ModelSelect over one or more models (more
// than one for an explicit cross/join source), with no filter yet.
func NewModelSelect(models []*ModelMeta) (*ModelSelect, error) {
	sel, err := NewSelect(modelWhat(models), modelSources(models))
	if err != nil {
		return nil, err
	}
	return &ModelSelect{Select: sel, models: models}, nil
}

func wrapModelSelect(sel *Select, models []*ModelMeta) *ModelSelect {
	return &ModelSelect{Select: sel, models: models}
}

func (ms *ModelSelect) OrderBy(cols ...Expr) *ModelSelect {
	return wrapModelSelect(ms.Select.OrderBy(cols...), ms.models)
}

func (ms *ModelSelect) Find(pred Expr, ands ...Expr) *ModelSelect {
	return wrapModelSelect(ms.Select.Find(pred, ands...), ms.models)
}

func (ms *ModelSelect) Slice(lo, hi *int) (*ModelSelect, error) {
	s, err := ms.Select.Slice(lo, hi)
	if err != nil {
		return nil, err
	}
	return wrapModelSelect(s, ms.models), nil
}

// rowToEntities splits one projected row across ms.models in
// declaration order and materializes an Entity per model via its
// bound factory.
func (ms *ModelSelect) rowToEntities(row []any) []Entity {
	entities := make([]Entity, len(ms.models))
	pos := 0
	for i, m := range ms.models {
		e := m.New()
		for _, c := range m.allColumns() {
			e.SetFromDB(c, row[pos])
			pos++
		}
		e.markReloaded()
		entities[i] = e
	}
	return entities
}

// single unwraps a one-model row into its sole Entity; callers that
// built a ModelSelect over more than one model use rowToEntities
// directly instead.
func single(entities []Entity) Entity { return entities[0] }

// All executes the query and materializes every row into one Entity.
// It only accepts a single-model select; a multi-model select returns
// an InvalidStatement error and must be read via AllJoined.
func (ms *ModelSelect) All(conn Conn) ([]Entity, error) {
	rows, err := ms.Select.All(conn)
	if err != nil {
		return nil, err
	}
	if len(ms.models) != 1 {
		return nil, newErr(InvalidStatement, "All of a multi-model select must be read via AllJoined")
	}
	out := make([]Entity, len(rows))
	for i, row := range rows {
		out[i] = single(ms.rowToEntities(row))
	}
	return out, nil
}

// AllJoined executes the query and materializes every row into one
// Entity slice per row, ordered the same as the models this
// ModelSelect was built from.
func (ms *ModelSelect) AllJoined(conn Conn) ([][]Entity, error) {
	rows, err := ms.Select.All(conn)
	if err != nil {
		return nil, err
	}
	out := make([][]Entity, len(rows))
	for i, row := range rows {
		out[i] = ms.rowToEntities(row)
	}
	return out, nil
}

// At materializes the single-model row at index i.
func (ms *ModelSelect) At(conn Conn, i int) (Entity, error) {
	row, err := ms.Select.At(conn, i)
	if err != nil {
		return nil, err
	}
	return single(ms.rowToEntities(row)), nil
}

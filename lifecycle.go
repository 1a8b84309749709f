package goorm

// Save emits an INSERT for a new instance or an UPDATE for a
// previously-persisted one, built from only the columns that have
// changed since the last save/reload. A clean, not-new instance is a
// no-op.
func Save(conn Conn, e Entity) error {
	meta := e.Meta()
	cols := dirtyColumnsInOrder(e, meta)
	if e.IsNew() {
		return doInsert(conn, e, meta, cols)
	}
	if len(cols) == 0 {
		return nil
	}
	return doUpdate(conn, e, meta, cols)
}

func dirtyColumnsInOrder(e Entity, meta *ModelMeta) []*Column {
	var cols []*Column
	for _, c := range meta.Columns {
		if e.isDirty(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func outboundValue(c *Column, v any) any {
	if c.Adapter != nil {
		return c.Adapter(v)
	}
	return v
}

func doInsert(conn Conn, e Entity, meta *ModelMeta, cols []*Column) error {
	var columns, values Expr
	if len(cols) > 0 {
		citems := make([]Expr, len(cols))
		vitems := make([]Expr, len(cols))
		for i, c := range cols {
			citems[i] = c.Bare()
			vitems[i] = Val(outboundValue(c, e.Get(c)))
		}
		columns = ExprList{Items: citems}
		values = ExprList{Items: vitems}
	}
	stmt, err := NewInsert(meta.Ref(), columns, values, "")
	if err != nil {
		return err
	}
	cur, err := stmt.Execute(conn)
	if err != nil {
		return err
	}
	defer cur.Close()
	if id, err := cur.LastRowID(); err == nil {
		e.SetFromDB(meta.OID, id)
	}
	e.markSaved()
	return nil
}

func doUpdate(conn Conn, e Entity, meta *ModelMeta, cols []*Column) error {
	citems := make([]Expr, len(cols))
	vitems := make([]Expr, len(cols))
	for i, c := range cols {
		citems[i] = c.Bare()
		vitems[i] = Val(outboundValue(c, e.Get(c)))
	}
	where := updateIdentityWhere(e, meta)
	stmt := NewUpdate(meta.Ref(), citems, vitems, where, "")
	cur, err := stmt.Execute(conn)
	if err != nil {
		return err
	}
	cur.Close()
	e.markSaved()
	return nil
}

func identityColumns(meta *ModelMeta) []*Column {
	if len(meta.Primaries) > 0 {
		return meta.Primaries
	}
	return []*Column{meta.OID}
}

// identityWhere builds `col = current_value` over the identity
// columns, for lookups (Reload, Delete) that operate on an instance
// already holding its up-to-date key.
func identityWhere(e Entity, meta *ModelMeta) Expr {
	var where Expr
	for _, c := range identityColumns(meta) {
		eq := Eq(c, e.Get(c))
		if where == nil {
			where = eq
		} else {
			where = And(where, eq)
		}
	}
	return where
}

// updateIdentityWhere builds the same AND chain but against each
// identity column's prior-or-current value, so that changing a
// primary column's value and saving still targets the original row.
func updateIdentityWhere(e Entity, meta *ModelMeta) Expr {
	var where Expr
	for _, c := range identityColumns(meta) {
		eq := Eq(c, e.priorOrCurrent(c))
		if where == nil {
			where = eq
		} else {
			where = And(where, eq)
		}
	}
	return where
}

// Delete removes the persisted row for e and snapshots its fields
// back into dirty so it can be re-saved as a fresh insert. A new
// instance has no persisted row, so this is a no-op.
func Delete(conn Conn, e Entity) error {
	if e.IsNew() {
		return nil
	}
	meta := e.Meta()
	where := identityWhere(e, meta)
	del, err := NewDelete(meta.Ref(), where, nil, nil)
	if err != nil {
		return err
	}
	cur, err := del.Execute(conn)
	if err != nil {
		return err
	}
	cur.Close()
	e.markDeleted()
	return nil
}

// Reload re-reads e's row by its current identity and overwrites
// every field via SetFromDB, clearing dirty. A new instance has no
// persisted row, so this is a no-op.
func Reload(conn Conn, e Entity) error {
	if e.IsNew() {
		return nil
	}
	meta := e.Meta()
	where := identityWhere(e, meta)
	ms, err := NewModelSelect([]*ModelMeta{meta})
	if err != nil {
		return err
	}
	ms = ms.Find(where)
	row, err := ms.Select.At(conn, 0)
	if err != nil {
		return err
	}
	for i, c := range meta.allColumns() {
		e.SetFromDB(c, row[i])
	}
	e.markReloaded()
	return nil
}

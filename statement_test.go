package goorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertRendersColumnsAndValues(t *testing.T) {
	model := NewRaw(`"some_table"`)
	columns := ExprList{Items: []Expr{bareName{"some_column"}, bareName{"other_column"}}}
	values := ExprList{Items: []Expr{Val("hello"), Val("world")}}

	in, err := NewInsert(model, columns, values, "")
	assert.NoError(t, err)
	assert.Equal(t, `insert into "some_table" ("some_column", "other_column") values (?, ?)`, in.Render())
	assert.Equal(t, []any{"hello", "world"}, in.Args())
}

func TestInsertDefaultValues(t *testing.T) {
	in, err := NewInsert(NewRaw(`"some_table"`), nil, nil, "")
	assert.NoError(t, err)
	assert.Equal(t, `insert into "some_table" default values`, in.Render())
}

func TestInsertRejectsValuesWithoutColumns(t *testing.T) {
	_, err := NewInsert(NewRaw(`"some_table"`), nil, ExprList{Items: []Expr{Val(1)}}, "")
	assert.Error(t, err)
}

func TestInsertFromSelectWithoutColumns(t *testing.T) {
	sub, err := NewSelect(nil, NewRaw("other_table"))
	assert.NoError(t, err)

	in, err := NewInsert(NewRaw(`"some_table"`), nil, sub, "")
	assert.NoError(t, err)
	assert.Equal(t, `insert into "some_table" select * from other_table`, in.Render())
}

func TestInsertFromSelectWithColumns(t *testing.T) {
	sub, err := NewSelect(NewRaw("some_column"), NewRaw("other_table"))
	assert.NoError(t, err)
	columns := ExprList{Items: []Expr{bareName{"some_column"}}}

	in, err := NewInsert(NewRaw(`"some_table"`), columns, sub, "")
	assert.NoError(t, err)
	assert.Equal(t, `insert into "some_table" ("some_column") select some_column from other_table`, in.Render())
}

func TestUpdateRendersSetAndQualifiedWhere(t *testing.T) {
	model := NewRaw(`"some_table"`)
	col := &Column{Name: "some_column", Model: &ModelMeta{Table: "some_table"}}
	col2 := &Column{Name: "other_column", Model: col.Model}

	upd := NewUpdate(model,
		[]Expr{col.Bare(), col2.Bare()},
		[]Expr{Val("hello"), Val("world")},
		Eq(col, "old1"),
		"")

	want := `update "some_table" set "some_column" = ?, "other_column" = ? where "some_table"."some_column" = ?`
	assert.Equal(t, want, upd.Render())
	assert.Equal(t, []any{"hello", "world", "old1"}, upd.Args())
}

func TestDeleteRejectsMultipleSources(t *testing.T) {
	sources := ExprList{Items: []Expr{NewRaw("a"), NewRaw("b")}}
	_, err := NewDelete(sources, nil, nil, nil)
	assert.Error(t, err)
	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, InvalidStatement, gerr.Kind)
}

func TestSelectZeroArgConstructionRequiresSources(t *testing.T) {
	_, err := NewSelect(nil, nil)
	assert.Error(t, err)
}

func TestSelectDefaultsWhatToStar(t *testing.T) {
	sel, err := NewSelect(nil, NewRaw("t"))
	assert.NoError(t, err)
	assert.Equal(t, "select * from t", sel.Render())
}

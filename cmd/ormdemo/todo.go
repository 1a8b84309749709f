package main

import "github.com/fj1981/goorm"

// TodoModel is the static metadata for the todos table: one declared
// column beyond the implicit oid primary, plus a boolean stored as
// SQLite's 0/1 convention via an adapter/converter pair.
var TodoModel = goorm.NewModel("Todo", "todos")

var (
	TodoTitle = TodoModel.Col("title")
	TodoDone  = TodoModel.Col("done",
		goorm.WithAdapter(goorm.BoolAdapter),
		goorm.WithConverter(goorm.BoolConverter),
	)
)

func init() {
	TodoModel.Bind(func() goorm.Entity {
		return &Todo{Base: goorm.NewBase(TodoModel)}
	})
}

// Todo is the generated accessor struct a user would hand-write (or
// code-gen) over the dirty-tracking Base: one getter/setter pair per
// column, standing in for the source's descriptor-driven attributes.
type Todo struct {
	goorm.Base
}

func (t *Todo) OID() int64 {
	v := t.Get(TodoModel.OID)
	n, _ := v.(int64)
	return n
}

func (t *Todo) Title() string {
	v := t.Get(TodoTitle)
	s, _ := v.(string)
	return s
}

func (t *Todo) SetTitle(s string) { t.Set(TodoTitle, s) }

func (t *Todo) Done() bool {
	v := t.Get(TodoDone)
	b, _ := v.(bool)
	return b
}

func (t *Todo) SetDone(b bool) { t.Set(TodoDone, b) }

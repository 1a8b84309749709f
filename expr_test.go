package goorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralRendersPlaceholder(t *testing.T) {
	lit := Val(1)
	assert.Equal(t, "?", lit.Render())
	assert.Equal(t, []any{1}, lit.Args())
}

func TestBinaryOpsRenderAndCollectArgs(t *testing.T) {
	cases := []struct {
		name string
		expr Expr
		sql  string
	}{
		{"Eq", Eq(1, 2), "? = ?"},
		{"Lt", Lt(1, 2), "? < ?"},
		{"And", And(1, 2), "? and ?"},
		{"Add", Add(1, 2), "? + ?"},
		{"Like", Like(1, 2), "? like ?"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.sql, c.expr.Render())
			assert.Equal(t, []any{1, 2}, c.expr.Args())
		})
	}
}

func TestEqAndNeRerouteOnNull(t *testing.T) {
	assert.Equal(t, "? isnull", Eq(1, nil).Render())
	assert.Equal(t, "? notnull", Ne(1, nil).Render())
}

func TestUnaryOps(t *testing.T) {
	assert.Equal(t, "not ?", Not(Val(1)).Render())
	assert.Equal(t, "? isnull", IsNull(Val(1)).Render())
}

// TestParenthesization pins down the unconditional-wrap rule for
// parenthesizing operands.
func TestParenthesization(t *testing.T) {
	e2 := Sub(Val(2), Not(NewRaw("current_timestamp")))
	full := And(Val(1), e2)
	assert.Equal(t, "? and (? - (not current_timestamp))", full.Render())
	assert.Equal(t, []any{1, 2}, full.Args())
}

// TestScenario3 composes a filtered, ordered, sliced select end to end.
func TestScenario3(t *testing.T) {
	where := And(Eq(Div(NewRaw("some_column"), 2), 3), Not(NewRaw("other_column")))
	sel, err := NewSelect(NewRaw("some_column"), NewRaw("some_table"))
	assert.NoError(t, err)
	limit, err := NewLimitRange(Range{Offset: intPtr(3), Stop: intPtr(5)})
	assert.NoError(t, err)
	sel = sel.Find(where).OrderBy(NewOrdering(NewRaw("order_column"), Desc))
	sel.limit = &limit

	want := `select some_column from some_table where ((some_column / ?) = ?) and (not other_column) order by order_column desc limit 3, 2`
	assert.Equal(t, want, sel.Render())
	assert.Equal(t, []any{2, 3}, sel.Args())
}

func TestInSubquery(t *testing.T) {
	sub, err := NewSelect(NewLiteral(2), nil)
	assert.NoError(t, err)
	expr := In(Val(1), sub)
	assert.Equal(t, "? in (select ?)", expr.Render())
}

func TestLimitRendering(t *testing.T) {
	n := NewLimitN(5)
	assert.Equal(t, "limit 5", n.Render())

	r, err := NewLimitRange(Range{Offset: intPtr(3), Stop: nil})
	assert.NoError(t, err)
	assert.Equal(t, "limit 3, -1", r.Render())

	none, err := NewLimitRange(Range{})
	assert.NoError(t, err)
	assert.Equal(t, "", none.Render())

	_, err = NewLimitRange(Range{Offset: intPtr(5), Stop: intPtr(2)})
	assert.Error(t, err)
	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, InvalidLimit, gerr.Kind)
}

package goorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fj1981/goorm"
	"github.com/fj1981/goorm/ormsqlite"
)

type Widget struct {
	goorm.Base
}

var widgetModel = goorm.NewModel("Widget", "widgets")
var (
	widgetName  = widgetModel.Col("name", goorm.Primary())
	widgetCount = widgetModel.Col("count",
		goorm.WithConverter(goorm.IntConverter))
)

func init() {
	widgetModel.Bind(func() goorm.Entity {
		return &Widget{Base: goorm.NewBase(widgetModel)}
	})
}

func openTestDB(t *testing.T) *ormsqlite.Conn {
	t.Helper()
	conn, err := ormsqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`create table widgets (
		oid integer primary key autoincrement,
		name text not null,
		count integer not null default 0
	)`))
	goorm.Connect(conn)
	t.Cleanup(func() {
		goorm.Disconnect()
	})
	return conn
}

func TestSaveEmitsInsertThenUpdate(t *testing.T) {
	conn := openTestDB(t)

	w := widgetModel.New().(*Widget)
	w.Set(widgetName, "gizmo")
	w.Set(widgetCount, 1)
	require.NoError(t, goorm.Save(conn, w))
	assert.False(t, w.IsNew())

	// clean, not-new save is a no-op.
	require.NoError(t, goorm.Save(conn, w))

	w.Set(widgetCount, 2)
	require.NoError(t, goorm.Save(conn, w))

	found, err := widgetModel.Find(goorm.Eq(widgetName, "gizmo"))
	require.NoError(t, err)
	rows, err := found.All(conn)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0].(*Widget)
	assert.Equal(t, 2, got.Get(widgetCount))
}

func TestReloadFiltersByIdentity(t *testing.T) {
	conn := openTestDB(t)

	a := widgetModel.New().(*Widget)
	a.Set(widgetName, "a")
	a.Set(widgetCount, 10)
	require.NoError(t, goorm.Save(conn, a))

	b := widgetModel.New().(*Widget)
	b.Set(widgetName, "b")
	b.Set(widgetCount, 20)
	require.NoError(t, goorm.Save(conn, b))

	require.NoError(t, goorm.Reload(conn, a))
	assert.Equal(t, 10, a.Get(widgetCount))
}

func TestDeleteThenResaveInsertsAgain(t *testing.T) {
	conn := openTestDB(t)

	w := widgetModel.New().(*Widget)
	w.Set(widgetName, "throwaway")
	w.Set(widgetCount, 1)
	require.NoError(t, goorm.Save(conn, w))

	require.NoError(t, goorm.Delete(conn, w))
	assert.True(t, w.IsNew())

	require.NoError(t, goorm.Save(conn, w))
	assert.False(t, w.IsNew())
}

func TestDeleteAndReloadNoOpOnNewInstance(t *testing.T) {
	conn := openTestDB(t)

	w := widgetModel.New().(*Widget)
	assert.True(t, w.IsNew())

	require.NoError(t, goorm.Delete(conn, w))
	require.NoError(t, goorm.Reload(conn, w))
	assert.True(t, w.IsNew())
}

// TestFoundRowIsNotNewAndResavesAsUpdate pins down the round trip: an
// instance materialized through Find/At is not new, so mutating and
// saving it emits a single update rather than a second, constraint-
// violating insert.
func TestFoundRowIsNotNewAndResavesAsUpdate(t *testing.T) {
	conn := openTestDB(t)

	w := widgetModel.New().(*Widget)
	w.Set(widgetName, "widget")
	w.Set(widgetCount, 1)
	require.NoError(t, goorm.Save(conn, w))

	found, err := widgetModel.Find(goorm.Eq(widgetName, "widget"))
	require.NoError(t, err)
	row, err := found.At(conn, 0)
	require.NoError(t, err)
	got := row.(*Widget)
	require.False(t, got.IsNew())

	got.Set(widgetCount, 99)
	require.NoError(t, goorm.Save(conn, got))

	all, err := widgetModel.Find(goorm.Eq(widgetName, "widget"))
	require.NoError(t, err)
	rows, err := all.All(conn)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 99, rows[0].(*Widget).Get(widgetCount))
}

// TestSelfJoinPairsConsecutiveCounts exercises a self join: two
// aliases of the same model joined on a predicate relating a column
// from one alias to a column from the other, materialized row by row
// via AllJoined.
func TestSelfJoinPairsConsecutiveCounts(t *testing.T) {
	conn := openTestDB(t)

	for _, w := range []struct {
		name  string
		count int
	}{{"alpha", 1}, {"beta", 2}, {"gamma", 3}} {
		e := widgetModel.New().(*Widget)
		e.Set(widgetName, w.name)
		e.Set(widgetCount, w.count)
		require.NoError(t, goorm.Save(conn, e))
	}

	a1 := widgetModel.As("sj1")
	a2 := widgetModel.As("sj2")
	a1Name, a1Count := a1.ColByAttr("name"), a1.ColByAttr("count")
	a2Name, a2Count := a2.ColByAttr("name"), a2.ColByAttr("count")

	ms, err := goorm.NewModelSelect([]*goorm.ModelMeta{a1, a2})
	require.NoError(t, err)
	ms = ms.Find(goorm.Eq(a1Count, goorm.Sub(a2Count, 1)))
	ms = ms.OrderBy(goorm.NewOrdering(a1Count, goorm.Asc))

	pairs, err := ms.AllJoined(conn)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, "alpha", pairs[0][0].(*Widget).Get(a1Name))
	assert.Equal(t, "beta", pairs[0][1].(*Widget).Get(a2Name))
	assert.Equal(t, "beta", pairs[1][0].(*Widget).Get(a1Name))
	assert.Equal(t, "gamma", pairs[1][1].(*Widget).Get(a2Name))
}

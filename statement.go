package goorm

import "strings"

// Executable is embedded by every statement node to give it the two
// side-effecting operations common to all of them: Execute and
// ExecuteMany.
type Executable struct {
	stmt Expr
}

func (e Executable) bind(stmt Expr) Executable {
	e.stmt = stmt
	return e
}

// Execute renders the statement, obtains a cursor from conn, and runs
// it.
func (e Executable) Execute(conn Conn) (Cursor, error) {
	cur, err := conn.NewCursor()
	if err != nil {
		return nil, err
	}
	if err := cur.Execute(e.stmt.Render(), e.stmt.Args()); err != nil {
		return nil, err
	}
	return cur, nil
}

// ExecuteMany renders the statement once and runs it against every row
// of args via the driver's batch path.
func (e Executable) ExecuteMany(conn Conn, rows [][]any) (Cursor, error) {
	cur, err := conn.NewCursor()
	if err != nil {
		return nil, err
	}
	if err := cur.ExecuteMany(e.stmt.Render(), rows); err != nil {
		return nil, err
	}
	return cur, nil
}

// fetchAll drains a cursor into a slice of positional row tuples.
func fetchAll(cur Cursor) ([][]any, error) {
	defer cur.Close()
	var rows [][]any
	for cur.Next() {
		row, err := cur.Scan()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func fetchOne(cur Cursor) ([]any, bool, error) {
	defer cur.Close()
	if !cur.Next() {
		return nil, false, cur.Err()
	}
	row, err := cur.Scan()
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// ----------------------------------------------------------------------
// Select
// ----------------------------------------------------------------------

// Select composes a SELECT statement: what to project, where to read
// it from, a filter, an ordering, and a limit.
type Select struct {
	Executable
	what    Expr
	sources Expr
	where   Expr
	order   Expr
	limit   *Limit
}

// NewSelect constructs a Select. `what` defaults to `Raw("*")` when
// sources is given; constructing with neither is an InvalidStatement
// error.
func NewSelect(what Expr, sources Expr) (*Select, error) {
	if what == nil {
		if sources == nil {
			return nil, newErr(InvalidStatement, "must specify sources if not specifying what")
		}
		what = NewRaw("*")
	}
	s := &Select{what: what, sources: sources}
	s.Executable = s.Executable.bind(s)
	return s, nil
}

// MustSelect panics on construction error; for statements whose
// arguments are known at compile time to be valid.
func MustSelect(what Expr, sources Expr) *Select {
	s, err := NewSelect(what, sources)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Select) parenthesize() {}

func (s *Select) clone(what, sources, where, order Expr, limit *Limit) *Select {
	n := &Select{what: what, sources: sources, where: where, order: order, limit: limit}
	n.Executable = n.Executable.bind(n)
	return n
}

// OrderBy replaces the order clause; called with no arguments it
// clears it.
func (s *Select) OrderBy(cols ...Expr) *Select {
	var order Expr
	if len(cols) > 0 {
		order = ExprList{Items: cols}
	}
	return s.clone(s.what, s.sources, s.where, order, s.limit)
}

// Find folds extra predicates with AND and appends to any existing
// where clause with AND.
func (s *Select) Find(pred Expr, ands ...Expr) *Select {
	where := foldAnd(pred, ands)
	if s.where != nil {
		where = And(s.where, where)
	}
	return s.clone(s.what, s.sources, where, s.order, s.limit)
}

func foldAnd(first Expr, rest []Expr) Expr {
	acc := first
	for _, e := range rest {
		acc = And(acc, e)
	}
	return acc
}

// ToDelete constructs a Delete from the same sources/where/order/limit.
func (s *Select) ToDelete() (*Delete, error) {
	return NewDelete(s.sources, s.where, s.order, s.limit)
}

// Exists runs `select 1 from ... where ... limit 1` and reports
// whether a row came back.
func (s *Select) Exists(conn Conn) (bool, error) {
	q := s.clone(NewRaw("1"), s.sources, s.where, nil, ptrLimit(NewLimitN(1)))
	cur, err := q.Execute(conn)
	if err != nil {
		return false, err
	}
	_, ok, err := fetchOne(cur)
	return ok, err
}

func ptrLimit(l Limit) *Limit { return &l }

// Len runs `select count(*) ...`, deliberately ignoring this select's
// own limit, and then adjusts the raw count in host memory for any
// limit this Select carries.
func (s *Select) Len(conn Conn) (int, error) {
	q := s.clone(NewRaw("count(*)"), s.sources, s.where, nil, nil)
	cur, err := q.Execute(conn)
	if err != nil {
		return 0, err
	}
	row, ok, err := fetchOne(cur)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n := toInt(row[0])
	if s.limit != nil {
		n -= s.limit.OffsetOrZero()
		if cnt := s.limit.CountOrInf(); cnt != nil && n > *cnt {
			n = *cnt
		}
		if n < 0 {
			n = 0
		}
	}
	return n, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	default:
		return 0
	}
}

// All executes the query and returns every row.
func (s *Select) All(conn Conn) ([][]any, error) {
	cur, err := s.Execute(conn)
	if err != nil {
		return nil, err
	}
	return fetchAll(cur)
}

// At yields row i using `limit i, 1`; a missing row is an
// IndexOutOfRange error.
func (s *Select) At(conn Conn, i int) ([]any, error) {
	limit, err := NewLimitRange(Range{Offset: intPtr(i), Stop: intPtr(i + 1)})
	if err != nil {
		return nil, err
	}
	q := s.clone(s.what, s.sources, s.where, s.order, &limit)
	cur, err := q.Execute(conn)
	if err != nil {
		return nil, err
	}
	row, ok, err := fetchOne(cur)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newErr(IndexOutOfRange, "no row at index %d", i)
	}
	return row, nil
}

func intPtr(n int) *int { return &n }

// Slice returns a new Select with Limit(lo, hi); either bound may be
// nil.
func (s *Select) Slice(lo, hi *int) (*Select, error) {
	l, err := NewLimitRange(Range{Offset: lo, Stop: hi})
	if err != nil {
		return nil, err
	}
	return s.clone(s.what, s.sources, s.where, s.order, &l), nil
}

func (s *Select) Render() string {
	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(s.what.Render())
	if s.sources != nil {
		b.WriteString(" from ")
		b.WriteString(s.sources.Render())
	}
	if s.where != nil {
		b.WriteString(" where ")
		b.WriteString(s.where.Render())
	}
	if s.order != nil {
		b.WriteString(" order by ")
		b.WriteString(s.order.Render())
	}
	if s.limit != nil {
		if rendered := s.limit.Render(); rendered != "" {
			b.WriteString(" ")
			b.WriteString(rendered)
		}
	}
	return b.String()
}

func (s *Select) Args() []any {
	var args []any
	args = append(args, s.what.Args()...)
	if s.sources != nil {
		args = append(args, s.sources.Args()...)
	}
	if s.where != nil {
		args = append(args, s.where.Args()...)
	}
	if s.order != nil {
		args = append(args, s.order.Args()...)
	}
	if s.limit != nil {
		args = append(args, s.limit.Args()...)
	}
	return args
}

// ----------------------------------------------------------------------
// Delete
// ----------------------------------------------------------------------

// Delete composes a DELETE statement. sources must name exactly one
// table: an ExprList with more than one element is an InvalidStatement
// error.
type Delete struct {
	Executable
	sources Expr
	where   Expr
	order   Expr
	limit   *Limit
}

func NewDelete(sources, where, order Expr, limit *Limit) (*Delete, error) {
	if list, ok := sources.(ExprList); ok && len(list.Items) > 1 {
		return nil, newErr(InvalidStatement, "can't delete from more than one table")
	}
	d := &Delete{sources: sources, where: where, order: order, limit: limit}
	d.Executable = d.Executable.bind(d)
	return d, nil
}

func (d *Delete) OrderBy(cols ...Expr) (*Delete, error) {
	var order Expr
	if len(cols) > 0 {
		order = ExprList{Items: cols}
	}
	return NewDelete(d.sources, d.where, order, d.limit)
}

func (d *Delete) Render() string {
	var b strings.Builder
	b.WriteString("delete from ")
	b.WriteString(d.sources.Render())
	if d.where != nil {
		b.WriteString(" where ")
		b.WriteString(d.where.Render())
	}
	if d.order != nil {
		b.WriteString(" order by ")
		b.WriteString(d.order.Render())
	}
	if d.limit != nil {
		if rendered := d.limit.Render(); rendered != "" {
			b.WriteString(" ")
			b.WriteString(rendered)
		}
	}
	return b.String()
}

func (d *Delete) Args() []any {
	var args []any
	args = append(args, d.sources.Args()...)
	if d.where != nil {
		args = append(args, d.where.Args()...)
	}
	if d.order != nil {
		args = append(args, d.order.Args()...)
	}
	if d.limit != nil {
		args = append(args, d.limit.Args()...)
	}
	return args
}

// ----------------------------------------------------------------------
// Insert
// ----------------------------------------------------------------------

// Insert composes an INSERT statement. When values is nil, it renders
// DEFAULT VALUES. When values is itself a Select, it is used as the
// row source instead of a `values (...)` list, with the column list
// omitted if columns is nil.
type Insert struct {
	Executable
	model      Expr
	columns    Expr
	values     Expr
	onConflict string
}

func NewInsert(model Expr, columns, values Expr, onConflict string) (*Insert, error) {
	if values != nil {
		if _, isSelect := values.(*Select); !isSelect && columns == nil {
			return nil, newErr(InvalidStatement, "values given without columns")
		}
	}
	in := &Insert{model: model, columns: columns, values: values, onConflict: onConflict}
	in.Executable = in.Executable.bind(in)
	return in, nil
}

func (in *Insert) Render() string {
	var b strings.Builder
	b.WriteString("insert")
	if in.onConflict != "" {
		b.WriteString(" or ")
		b.WriteString(in.onConflict)
	}
	b.WriteString(" into ")
	b.WriteString(in.model.Render())
	if in.values == nil {
		b.WriteString(" default values")
		return b.String()
	}
	if _, isSelect := in.values.(*Select); isSelect {
		if in.columns != nil {
			b.WriteString(" (")
			b.WriteString(in.columns.Render())
			b.WriteString(")")
		}
		b.WriteString(" ")
		b.WriteString(in.values.Render())
		return b.String()
	}
	b.WriteString(" (")
	b.WriteString(in.columns.Render())
	b.WriteString(") values (")
	b.WriteString(in.values.Render())
	b.WriteString(")")
	return b.String()
}

func (in *Insert) Args() []any {
	var args []any
	args = append(args, in.model.Args()...)
	if in.values == nil {
		return args
	}
	if in.columns != nil {
		args = append(args, in.columns.Args()...)
	}
	args = append(args, in.values.Args()...)
	return args
}

// ----------------------------------------------------------------------
// Update
// ----------------------------------------------------------------------

// Update composes an UPDATE statement, zipping columns with values
// into `col = val` pairs.
type Update struct {
	Executable
	model      Expr
	columns    []Expr
	values     []Expr
	where      Expr
	onConflict string
}

func NewUpdate(model Expr, columns, values []Expr, where Expr, onConflict string) *Update {
	u := &Update{model: model, columns: columns, values: values, where: where, onConflict: onConflict}
	u.Executable = u.Executable.bind(u)
	return u
}

func (u *Update) Render() string {
	var b strings.Builder
	b.WriteString("update")
	if u.onConflict != "" {
		b.WriteString(" or ")
		b.WriteString(u.onConflict)
	}
	b.WriteString(" ")
	b.WriteString(u.model.Render())
	b.WriteString(" set ")
	pairs := make([]string, len(u.columns))
	for i := range u.columns {
		pairs[i] = u.columns[i].Render() + " = " + u.values[i].Render()
	}
	b.WriteString(strings.Join(pairs, ", "))
	if u.where != nil {
		b.WriteString(" where ")
		b.WriteString(u.where.Render())
	}
	return b.String()
}

func (u *Update) Args() []any {
	var args []any
	args = append(args, u.model.Args()...)
	for _, c := range u.columns {
		args = append(args, c.Args()...)
	}
	for _, v := range u.values {
		args = append(args, v.Args()...)
	}
	if u.where != nil {
		args = append(args, u.where.Args()...)
	}
	return args
}

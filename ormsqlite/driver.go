// Package ormsqlite is the concrete Conn/Cursor implementation goorm
// runs against: a thin wrapper over database/sql plus the pure-Go
// modernc.org/sqlite driver and jmoiron/sqlx for row-scanning
// ergonomics.
package ormsqlite

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/fj1981/goorm"
	"github.com/fj1981/goorm/ormlog"
)

// Conn wraps a *sqlx.DB as a goorm.Conn.
type Conn struct {
	db     *sqlx.DB
	logger *ormlog.Logger
}

// Open opens path (a file path, or ":memory:") as a SQLite database
// and wraps it as a goorm.Conn.
func Open(path string) (*Conn, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; one conn avoids SQLITE_BUSY
	return &Conn{db: db, logger: ormlog.Default()}, nil
}

// WithLogger overrides the query logger used by cursors opened from
// this connection.
func (c *Conn) WithLogger(l *ormlog.Logger) *Conn {
	c.logger = l
	return c
}

func (c *Conn) NewCursor() (goorm.Cursor, error) {
	return &cursor{db: c.db, logger: c.logger}, nil
}

func (c *Conn) Close() error { return c.db.Close() }

// Exec runs a statement outside the core's AST -- schema DDL is an
// explicit non-goal of the query/model layer, but a demo or a test
// still needs to create its tables somehow.
func (c *Conn) Exec(ddl string) error {
	_, err := c.db.Exec(ddl)
	return err
}

// cursor executes one statement per instance, matching the source's
// cursor lifecycle: Execute (or ExecuteMany) once, then iterate.
type cursor struct {
	db     *sqlx.DB
	logger *ormlog.Logger
	rows   *sqlx.Rows
	cols   int
	cur    []any
	err    error
	result sql.Result
}

func (c *cursor) Execute(query string, args []any) error {
	if isQuery(query) {
		rows, err := c.db.Queryx(query, args...)
		c.logger.Query(query, args, 0, err)
		if err != nil {
			c.err = err
			return err
		}
		c.rows = rows
		return nil
	}
	result, err := c.db.Exec(query, args...)
	c.logger.Query(query, args, 0, err)
	if err != nil {
		c.err = err
		return err
	}
	c.result = result
	return nil
}

func (c *cursor) ExecuteMany(query string, rows [][]any) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	for _, args := range rows {
		if _, err := tx.Exec(query, args...); err != nil {
			tx.Rollback()
			c.logger.Query(query, args, 0, err)
			return err
		}
	}
	c.logger.Query(query, nil, len(rows), nil)
	return tx.Commit()
}

func (c *cursor) Next() bool {
	if c.rows == nil {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = err
		}
		return false
	}
	cols, err := c.rows.Columns()
	if err != nil {
		c.err = err
		return false
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		c.err = err
		return false
	}
	c.cur = vals
	return true
}

func (c *cursor) Scan() ([]any, error) { return c.cur, nil }
func (c *cursor) Err() error           { return c.err }

func (c *cursor) LastRowID() (int64, error) {
	if c.result == nil {
		return 0, goorm.NewErrorf(goorm.InvalidStatement, "no result to read a last insert id from")
	}
	return c.result.LastInsertId()
}

func (c *cursor) Close() error {
	if c.rows != nil {
		return c.rows.Close()
	}
	return nil
}

// isQuery is the simple statement-shape check goorm needs to route
// between db.Queryx (rows expected) and db.Exec (a rowcount/last-id
// result expected) -- every SELECT this module renders begins with one
// of these keywords; every other statement goes to db.Exec.
func isQuery(sql string) bool {
	for _, kw := range []string{"select", "SELECT"} {
		if len(sql) >= len(kw) && sql[:len(kw)] == kw {
			return true
		}
	}
	return false
}

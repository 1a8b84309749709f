// Command ormdemo exercises the full lifecycle of a model -- create,
// find, mutate, reload, delete -- against a real SQLite database, the
// working example the package's integration tests are modeled on.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fj1981/goorm"
	"github.com/fj1981/goorm/ormconfig"
	"github.com/fj1981/goorm/ormlog"
	"github.com/fj1981/goorm/ormsqlite"
)

func main() {
	ormlog.SetDefault(ormlog.New(ormlog.WithLevel(slog.LevelDebug)))

	path := ":memory:"
	if dsn, err := ormconfig.Load(ormconfig.WithFile("ormdemo.yml")); err == nil && dsn.Path != "" {
		path = dsn.Path
	}

	conn, err := ormsqlite.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer conn.Close()
	goorm.Connect(conn)
	defer goorm.Disconnect()

	if err := conn.Exec(`create table if not exists todos (
		oid integer primary key autoincrement,
		title text not null,
		done integer not null default 0
	)`); err != nil {
		fmt.Fprintln(os.Stderr, "schema:", err)
		os.Exit(1)
	}

	item := TodoModel.New().(*Todo)
	item.SetTitle("write design doc")
	item.SetDone(false)
	if err := goorm.Save(conn, item); err != nil {
		fmt.Fprintln(os.Stderr, "save:", err)
		os.Exit(1)
	}
	fmt.Printf("inserted todo #%d: %q\n", item.OID(), item.Title())

	found, err := TodoModel.Find(goorm.Eq(TodoTitle, "write design doc"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "find:", err)
		os.Exit(1)
	}
	row, err := found.At(conn, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "at:", err)
		os.Exit(1)
	}
	todo := row.(*Todo)
	todo.SetDone(true)
	if err := goorm.Save(conn, todo); err != nil {
		fmt.Fprintln(os.Stderr, "update:", err)
		os.Exit(1)
	}
	fmt.Printf("marked todo #%d done=%v\n", todo.OID(), todo.Done())

	if err := goorm.Reload(conn, todo); err != nil {
		fmt.Fprintln(os.Stderr, "reload:", err)
		os.Exit(1)
	}
	fmt.Printf("reloaded todo #%d done=%v\n", todo.OID(), todo.Done())

	if err := goorm.Delete(conn, todo); err != nil {
		fmt.Fprintln(os.Stderr, "delete:", err)
		os.Exit(1)
	}
	fmt.Printf("deleted todo #%d (is_new=%v)\n", todo.OID(), todo.IsNew())
}

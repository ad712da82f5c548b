// Package sqlite registers the "sqlite" database driver, backed by
// mattn/go-sqlite3 (CGO). It is the default store and the one tests use.
//
//	import _ "github.com/ncobase/taskmanager/data/sqlite"
//
// Sources are file paths or URIs:
//
//	"tasks.db"
//	"file:tasks.db?cache=shared&_journal_mode=WAL"
//	":memory:"  // one database per connection; keep max_open_conn at 1
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/ncobase/taskmanager/data"
)

const name = "sqlite"

// DriverName is the database/sql driver registered by this package. It is
// go-sqlite3 with lower() replaced by a Unicode-aware version, so that
// LOWER(col) LIKE ? matches the Go-lowered pattern for non-ASCII text.
const DriverName = "sqlite3_unicode"

// Lower folds TEXT and BLOB values with Unicode case rules. Other values are
// returned unchanged and NULL stays NULL.
func Lower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return bytes.ToLower(s)
	}
	return v
}

// driver implements data.DatabaseDriver for SQLite.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return name
}

// Connect opens the database. A single open connection is the default,
// since SQLite serializes writers anyway.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, name, DriverName, cfg, data.PoolDefaults{MaxIdleConn: 2, MaxOpenConn: 1})
}

// Close terminates the SQLite connection and releases resources.
func (d *driver) Close(conn any) error {
	return data.CloseSQL(name, conn)
}

// Ping verifies the SQLite connection is alive and functional.
func (d *driver) Ping(ctx context.Context, conn any) error {
	return data.PingSQL(ctx, name, conn)
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", Lower, true)
		},
	})
	data.RegisterDatabaseDriver(&driver{})
}

// Package datatest opens throwaway SQLite stores with the tasks schema applied.
package datatest

import (
	"context"
	"database/sql"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/data/sqlite"
	"github.com/ncobase/taskmanager/internal/data/schema"
)

// Open returns an in-memory store with the tasks table created.
// The store is closed when the test ends.
func Open(t testing.TB, opts ...data.Option) *data.Data {
	t.Helper()
	db, err := sql.Open(sqlite.DriverName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	d := data.NewWithDB(db, dialect.SQLite, opts...)
	t.Cleanup(func() { _ = d.Close() })

	if err := schema.Up(context.Background(), d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

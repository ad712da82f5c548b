// Package schema creates and drops the tasks table for each supported dialect.
package schema

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/ncobase/taskmanager/data"
)

// Table is the name of the tasks table.
const Table = "tasks"

type columnTypes struct {
	id, idAttr string
	str, text  string
	timestamp  string
}

func typesFor(d string) (columnTypes, error) {
	switch d {
	case dialect.SQLite:
		return columnTypes{id: "INTEGER", idAttr: "PRIMARY KEY AUTOINCREMENT", str: "VARCHAR", text: "TEXT", timestamp: "DATETIME"}, nil
	case dialect.Postgres:
		return columnTypes{id: "BIGSERIAL", idAttr: "PRIMARY KEY", str: "VARCHAR", text: "TEXT", timestamp: "TIMESTAMPTZ"}, nil
	case dialect.MySQL:
		return columnTypes{id: "BIGINT", idAttr: "AUTO_INCREMENT PRIMARY KEY", str: "VARCHAR", text: "TEXT", timestamp: "DATETIME(6)"}, nil
	}
	return columnTypes{}, fmt.Errorf("schema: unsupported dialect %q", d)
}

// CreateTable returns the CREATE TABLE statement for dialect d.
func CreateTable(d string) (string, error) {
	ct, err := typesFor(d)
	if err != nil {
		return "", err
	}
	t := entsql.Dialect(d).CreateTable(Table).IfNotExists().
		Columns(
			entsql.Column("id").Type(ct.id).Attr(ct.idAttr),
			entsql.Column("title").Type(ct.str+"(255)").Attr("NOT NULL"),
			entsql.Column("description").Type(ct.text).Attr("NULL"),
			entsql.Column("completed").Type("BOOLEAN").Attr("NOT NULL DEFAULT FALSE"),
			entsql.Column("priority").Type(ct.str+"(16)").Attr("NOT NULL DEFAULT 'medium'"),
			entsql.Column("category").Type(ct.str+"(100)").Attr("NULL DEFAULT 'general'"),
			entsql.Column("due_date").Type(ct.timestamp).Attr("NULL"),
			entsql.Column("created_at").Type(ct.timestamp).Attr("NOT NULL"),
			entsql.Column("updated_at").Type(ct.timestamp).Attr("NOT NULL"),
		)
	if d == dialect.MySQL {
		t.Charset("utf8mb4")
	}
	query, _ := t.Query()
	return query, nil
}

// Up creates the tasks table and its ordering index when missing.
func Up(ctx context.Context, d *data.Data) error {
	query, err := CreateTable(d.Dialect())
	if err != nil {
		return err
	}
	return d.WithTx(ctx, func(ctx context.Context, tx data.Querier) error {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create table %s: %w", Table, err)
		}
		// MySQL has no CREATE INDEX IF NOT EXISTS; list order falls back to a scan there.
		if d.Dialect() == dialect.MySQL {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON "+Table+" (created_at)"); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
		return nil
	})
}

// Down drops the tasks table.
func Down(ctx context.Context, d *data.Data) error {
	return d.WithTx(ctx, func(ctx context.Context, tx data.Querier) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+Table); err != nil {
			return fmt.Errorf("drop table %s: %w", Table, err)
		}
		return nil
	})
}

package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/taskmanager/data/config"
)

// PoolDefaults are applied when the node leaves a pool setting at zero.
type PoolDefaults struct {
	MaxIdleConn int
	MaxOpenConn int
}

// OpenSQL opens a database/sql handle for a registered sql driver, applies the
// pool configuration and verifies it with a ping.
func OpenSQL(ctx context.Context, label, sqlDriver string, cfg any, defaults PoolDefaults) (*sql.DB, error) {
	node, ok := cfg.(*config.DBNode)
	if !ok {
		return nil, fmt.Errorf("%s: invalid configuration type, expected *config.DBNode", label)
	}
	if node.Source == "" {
		return nil, fmt.Errorf("%s: connection source is empty", label)
	}

	db, err := sql.Open(sqlDriver, node.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", label, err)
	}

	idle, open := node.MaxIdleConn, node.MaxOpenConn
	if idle <= 0 {
		idle = defaults.MaxIdleConn
	}
	if open <= 0 {
		open = defaults.MaxOpenConn
	}
	if idle > 0 {
		db.SetMaxIdleConns(idle)
	}
	if open > 0 {
		db.SetMaxOpenConns(open)
	}
	if node.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(node.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", label, err)
	}
	return db, nil
}

// CloseSQL closes a connection returned by OpenSQL.
func CloseSQL(label string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", label)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("%s: failed to close connection: %w", label, err)
	}
	return nil
}

// PingSQL verifies a connection returned by OpenSQL.
func PingSQL(ctx context.Context, label string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", label)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping failed: %w", label, err)
	}
	return nil
}

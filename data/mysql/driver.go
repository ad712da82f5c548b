// Package mysql registers the "mysql" database driver, backed by
// go-sql-driver/mysql.
//
//	import _ "github.com/ncobase/taskmanager/data/mysql"
//
// parseTime=true is required so DATETIME columns scan into time.Time:
//
//	user:pass@tcp(localhost:3306)/tasks?parseTime=true&loc=UTC
package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/data/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

const name = "mysql"

// driver implements data.DatabaseDriver for MySQL.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return name
}

// Connect establishes a MySQL connection pool.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	if node, ok := cfg.(*config.DBNode); ok && node.Source != "" && !strings.Contains(node.Source, "parseTime=true") {
		return nil, fmt.Errorf("%s: source must set parseTime=true", name)
	}
	return data.OpenSQL(ctx, name, "mysql", cfg, data.PoolDefaults{MaxIdleConn: 5, MaxOpenConn: 25})
}

// Close terminates the MySQL connection pool.
func (d *driver) Close(conn any) error {
	return data.CloseSQL(name, conn)
}

// Ping verifies the MySQL connection is alive.
func (d *driver) Ping(ctx context.Context, conn any) error {
	return data.PingSQL(ctx, name, conn)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}

// Package data owns the database connection and the optional message broker
// the task service publishes events to. Drivers live in sub-packages and
// register themselves on import:
//
//	import (
//	    _ "github.com/ncobase/taskmanager/data/sqlite"
//	    _ "github.com/ncobase/taskmanager/data/messaging/kafka"
//	)
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	"github.com/ncobase/taskmanager/data/config"
)

const defaultTopic = "tasks"

// Data represents the data layer implementation
type Data struct {
	db       *sql.DB
	dialect  string
	dbDriver DatabaseDriver

	publisher      Publisher
	msgDriver      MessageDriver
	topic          string
	publishTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// Option function type for configuring Data
type Option func(*Data)

// WithPublisher sets the event publisher, replacing any configured broker.
func WithPublisher(p Publisher) Option {
	return func(d *Data) {
		d.publisher = p
	}
}

// WithTopic sets the topic events are published to.
func WithTopic(topic string) Option {
	return func(d *Data) {
		if topic != "" {
			d.topic = topic
		}
	}
}

// New connects the configured database and, when enabled, the message broker.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Data, error) {
	if cfg == nil || cfg.Database == nil || cfg.Database.Master == nil {
		return nil, errors.New("data: database configuration is missing")
	}
	node := cfg.Database.Master

	dialectName, err := DialectFor(node.Driver)
	if err != nil {
		return nil, err
	}
	driver, err := GetDatabaseDriver(node.Driver)
	if err != nil {
		return nil, err
	}
	conn, err := driver.Connect(ctx, node)
	if err != nil {
		return nil, err
	}
	db, ok := conn.(*sql.DB)
	if !ok {
		_ = driver.Close(conn)
		return nil, fmt.Errorf("data: driver %s returned %T, expected *sql.DB", node.Driver, conn)
	}

	d := NewWithDB(db, dialectName)
	d.dbDriver = driver
	if cfg.Messaging != nil {
		if cfg.Messaging.Topic != "" {
			d.topic = cfg.Messaging.Topic
		}
		if cfg.Messaging.PublishTimeout > 0 {
			d.publishTimeout = cfg.Messaging.PublishTimeout
		}
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.publisher == nil && cfg.Messaging.IsEnabled() {
		if err := d.connectPublisher(ctx, cfg); err != nil {
			_ = d.Close()
			return nil, err
		}
	}

	return d, nil
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *sql.DB, dialectName string, opts ...Option) *Data {
	d := &Data{
		db:             db,
		dialect:        dialectName,
		topic:          defaultTopic,
		publishTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Data) connectPublisher(ctx context.Context, cfg *config.Config) error {
	driver, err := GetMessageDriver(cfg.Messaging.Driver)
	if err != nil {
		return err
	}
	conn, err := driver.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("data: connect %s: %w", cfg.Messaging.Driver, err)
	}
	p, ok := conn.(Publisher)
	if !ok {
		_ = driver.Close(conn)
		return fmt.Errorf("data: message driver %s returned %T, expected Publisher", cfg.Messaging.Driver, conn)
	}
	d.publisher = p
	d.msgDriver = driver
	return nil
}

// DB returns the underlying database handle.
func (d *Data) DB() *sql.DB {
	return d.db
}

// Dialect returns the SQL dialect name understood by entgo.io/ent/dialect/sql.
func (d *Data) Dialect() string {
	return d.dialect
}

// DialectFor maps a configured driver name to its SQL dialect.
func DialectFor(driver string) (string, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return dialect.SQLite, nil
	case "postgres", "postgresql", "pgx":
		return dialect.Postgres, nil
	case "mysql":
		return dialect.MySQL, nil
	default:
		return "", fmt.Errorf("data: unsupported database driver %q", driver)
	}
}

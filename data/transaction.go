package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier is the statement surface shared by *sql.DB and *sql.Tx.
// Repositories take one explicitly instead of reaching for a global handle.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// ErrClosed is returned when the data layer has been closed.
var ErrClosed = errors.New("data layer is closed")

// WithTx wraps function within transaction
func (d *Data) WithTx(ctx context.Context, fn func(ctx context.Context, tx Querier) error) error {
	return d.withTx(ctx, nil, fn)
}

// WithTxRead wraps function within read-only transaction
func (d *Data) WithTxRead(ctx context.Context, fn func(ctx context.Context, tx Querier) error) error {
	return d.withTx(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (d *Data) withTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx Querier) error) error {
	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if d.db == nil {
		return errors.New("database connection is nil")
	}

	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Package pgxutil exposes the native pgx connection behind a database/sql pool
// so repositories can use pgx row collection and transactions.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ErrNotPgx is returned when the pool's driver is not pgx/v5/stdlib.
var ErrNotPgx = errors.New("pgxutil: driver connection is not *stdlib.Conn")

// Conn checks one connection out of db and runs fn on its pgx connection.
// The connection returns to the pool when fn returns.
func Conn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	c, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer c.Close() //nolint:errcheck // returning a conn to the pool cannot fail usefully

	return c.Raw(func(driverConn any) error {
		std, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return ErrNotPgx
		}
		return fn(std.Conn())
	})
}

// Tx runs fn in a transaction on one pooled connection. The transaction
// commits when fn returns nil and rolls back otherwise; a failed rollback
// is joined onto fn's error.
func Tx(ctx context.Context, db *sql.DB, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	return Conn(ctx, db, func(conn *pgx.Conn) (err error) {
		tx, err := conn.BeginTx(ctx, opts)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() {
			if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			}
		}()

		if err = fn(tx); err != nil {
			return err
		}
		if err = tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}

// Package pgxutil lets repositories that hold a *sql.DB use pgx's native API.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ErrNotPgx is returned when db was not opened with the pgx stdlib driver.
var ErrNotPgx = errors.New("database connection is not a pgx stdlib connection")

// WithPgxConn checks a connection out of db's pool and runs fn on its
// underlying *pgx.Conn. The connection returns to the pool when fn returns,
// so fn must not retain it.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		std, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return ErrNotPgx
		}
		return fn(std.Conn())
	})
}

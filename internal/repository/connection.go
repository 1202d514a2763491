package repository

import (
	"context"
	"database/sql"
)

// ConnectionProvider hands out a dedicated database connection. *sql.DB
// satisfies it; pooling, credentials and retries are its concern.
type ConnectionProvider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// rowScanner is implemented by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// withConn acquires a connection for the duration of fn and releases it on
// every exit path. Any failure is reported as a DataAccessError for op.
func withConn(ctx context.Context, db ConnectionProvider, op string, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return newDataAccessError(op, err)
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		return newDataAccessError(op, err)
	}

	return nil
}

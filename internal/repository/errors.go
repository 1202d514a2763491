package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	notNullViolationCode    = "23502"
)

// ErrDataAccess matches every failure returned by the repositories
var ErrDataAccess = errors.New("data access failure")

// DataAccessError reports a failed repository operation. Err is the
// underlying driver error and stays reachable through errors.As.
type DataAccessError struct {
	Op  string
	Err error
}

func newDataAccessError(op string, err error) error {
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDataAccess) succeed for any DataAccessError
func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}

// IsUniqueViolation checks if err is a PostgreSQL unique constraint violation
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

// IsForeignKeyViolation checks if err is a PostgreSQL foreign key violation,
// e.g. a sale referencing a customer or product that does not exist
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolationCode)
}

// IsNotNullViolation checks if err is a PostgreSQL not null violation
func IsNotNullViolation(err error) bool {
	return hasCode(err, notNullViolationCode)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Package dberrors maps PostgreSQL driver errors onto conditions the
// repositories care about.
package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsDuplicateConstraintError reports whether err is a unique violation
// (SQLSTATE 23505) raised by the named constraint. Repositories use it to
// turn constraint hits into typed application errors.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
}

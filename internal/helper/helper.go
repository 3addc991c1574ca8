package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports a postgres duplicate-key error, optionally on a constraint
// whose name contains hint.
func IsUniqueViolation(err error, hint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return hint == "" || strings.Contains(pgErr.ConstraintName, hint)
}

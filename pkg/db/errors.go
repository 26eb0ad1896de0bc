package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// A non-empty scope narrows the check to a table or constraint name, so
// callers can distinguish the constraint they race on from unrelated ones.
// Postgres driver errors are decoded structurally; anything else (the sqlite
// test driver included) falls back to message inspection.
func IsUniqueViolation(err error, scope string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != pgUniqueViolationCode {
			return false
		}
		return scope == "" ||
			strings.Contains(pgxErr.ConstraintName, scope) ||
			pgxErr.TableName == scope
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolationCode {
			return false
		}
		return scope == "" ||
			strings.Contains(pqErr.Constraint, scope) ||
			pqErr.Table == scope
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return scope == "" || strings.Contains(msg, scope)
}

package models

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgreSQL error codes this package translates to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
)

// pgErrorCode extracts the PostgreSQL error code from an error chain.
// Returns an empty string for non-Postgres errors. pgdriver surfaces
// Error by value, so the target is the value type.
func pgErrorCode(err error) string {
	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		return pgerr.Field('C')
	}

	return ""
}

package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code raised when a unique index
// rejects an insert.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Callers translate it into a business-rule conflict instead of
// surfacing a raw storage error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Package dberrs translates PostgreSQL driver errors into the errors the
// application core understands.
package dberrs

import (
	"errors"

	"helperhub/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// Write maps a failed write of object id. Unique, serialization and deadlock
// failures mean another transaction won the race.
func Write(err error, object string, id any) error {
	if err == nil {
		return nil
	}
	if IsConflict(err) {
		return errs.NewConcurrencyConflictErrorWithCause(object, id, err)
	}
	return err
}

// Read maps gorm.ErrRecordNotFound to errs.ObjectNotFoundError.
func Read(err error, object string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(object, id)
	}
	return err
}

// IsConflict reports whether err is a PostgreSQL error caused by a concurrent writer.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case uniqueViolation, serializationFailure, deadlockDetected:
		return true
	}
	return false
}

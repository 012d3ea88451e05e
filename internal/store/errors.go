package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id or key matches no row.
var ErrNotFound = errors.New("record not found")

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// ReferenceError reports a foreign key that points at nothing, or a row that
// is still referenced by another.
type ReferenceError struct {
	Entity string
	Field  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: invalid reference %s", e.Entity, e.Field)
}

// StorageError wraps any other database failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsReference reports whether err is a ReferenceError.
func IsReference(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}

// translate maps gorm/driver errors onto the store taxonomy. Errors that
// already belong to it pass through untouched.
func translate(op, entity string, err error) error {
	if err == nil {
		return nil
	}

	var (
		ce *ConflictError
		re *ReferenceError
		se *StorageError
	)
	switch {
	case errors.Is(err, ErrNotFound), errors.As(err, &ce), errors.As(err, &re), errors.As(err, &se):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConflictError{Entity: entity}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ReferenceError{Entity: entity}
	default:
		return &StorageError{Op: op, Err: err}
	}
}

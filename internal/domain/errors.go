package domain

import "fmt"

// UniqueConstraintViolation is returned when a create reuses a value that
// must be unique for the entity.
type UniqueConstraintViolation struct {
	Entity string
	Field  string
	Err    error
}

func (e *UniqueConstraintViolation) Error() string {
	return fmt.Sprintf("unique constraint violation: %s.%s", e.Entity, e.Field)
}

func (e *UniqueConstraintViolation) Unwrap() error { return e.Err }

// ForeignKeyViolation is returned when a write references a row that does not
// exist, or a delete would orphan a row that references it.
type ForeignKeyViolation struct {
	Entity string
	Field  string
	Err    error
}

func (e *ForeignKeyViolation) Error() string {
	return fmt.Sprintf("foreign key violation: %s.%s", e.Entity, e.Field)
}

func (e *ForeignKeyViolation) Unwrap() error { return e.Err }

// ValidationError is returned when a value falls outside an enum's closed set
// or a field's declared type or range.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s.%s: %s", e.Entity, e.Field, e.Reason)
}

// ConnectivityError is returned when the storage engine cannot be reached.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("storage unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

func invalid(entity, field, format string, args ...any) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Reason: fmt.Sprintf(format, args...)}
}

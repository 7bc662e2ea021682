package core

import "fmt"

// ValidationError reports caller-supplied data that violates a precondition.
// It is always raised before any mutation and never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IllegalTransitionError reports a status change or destructive action that
// is not permitted from the document's current lifecycle state. The entity
// is left unchanged.
type IllegalTransitionError struct {
	Entity string
	ID     int
	From   string
	Action string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s %d cannot be %s: status is %s", e.Entity, e.ID, e.Action, e.From)
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

func notFound(entity string, ref any) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: fmt.Sprint(ref)}
}

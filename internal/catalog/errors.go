package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the identifier does not resolve to a product.
	ErrNotFound = errors.New("product not found")
	// ErrStore is matched by every *StoreError.
	ErrStore = errors.New("store error")
)

// ValidationKind names the rule a payload violated.
type ValidationKind string

const (
	MissingField  ValidationKind = "missing_field"
	InvalidNumber ValidationKind = "invalid_number"
	MissingSize   ValidationKind = "missing_size"
)

// ValidationError reports the first rule a create or update payload broke.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing required field %q", e.Field)
	case InvalidNumber:
		return fmt.Sprintf("field %q must be a non-negative number", e.Field)
	case MissingSize:
		return "a size is required for this category"
	}
	return fmt.Sprintf("invalid field %q", e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StoreError wraps a failure reported by the store collaborator.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

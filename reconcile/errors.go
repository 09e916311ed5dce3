package reconcile

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField        = errors.New("required field is missing")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrNegativePercentage  = errors.New("percentage must not be negative")
	ErrPercentageRange     = errors.New("percentage must be between 0 and 100")
	ErrDiscountExceedsCost = errors.New("discount exceeds client cost")
	ErrDiscountMismatch    = errors.New("discount details are inconsistent")
)

// ValidationError identifies the input field that made a computation fail.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// prefixed re-roots a ValidationError under a parent field name, so an error
// raised for "materials_total" surfaces as "planned.materials_total".
func prefixed(prefix string, err error) error {
	var ve *ValidationError
	if prefix == "" || !errors.As(err, &ve) {
		return err
	}
	return &ValidationError{Field: prefix + "." + ve.Field, Err: ve.Err}
}

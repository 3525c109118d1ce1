package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for the product domain. Use errors.Is() to check these.
var (
	// ErrInvalidProduct is matched by every ValidationErrors value.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrAlreadyPersisted indicates an identity was assigned to a product that already has one.
	ErrAlreadyPersisted = errors.New("product already persisted")

	// ErrInvalidIdentity indicates a non-positive id or a zero creation time was supplied at persistence.
	ErrInvalidIdentity = errors.New("invalid product identity")
)

// ErrorKind classifies a single field violation.
type ErrorKind int

const (
	// MissingField means a required text field was empty or absent.
	MissingField ErrorKind = iota + 1
	// InvalidValue means a field was present but outside its allowed domain.
	InvalidValue
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case InvalidValue:
		return "invalid_value"
	default:
		return "unknown"
	}
}

// FieldError is one rule violation reported by ValidateProduct.
type FieldError struct {
	Kind  ErrorKind
	Field string
}

// NewMissingField reports a required field that was empty or whitespace-only.
func NewMissingField(field string) *FieldError {
	return &FieldError{Kind: MissingField, Field: field}
}

// NewInvalidValue reports a field whose value is outside its allowed domain.
func NewInvalidValue(field string) *FieldError {
	return &FieldError{Kind: InvalidValue, Field: field}
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case MissingField:
		return e.Field + ": required field is missing"
	case InvalidValue:
		return e.Field + ": invalid value"
	default:
		return e.Field + ": validation failed"
	}
}

// ValidationErrors collects every violation found in a candidate, in rule order.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return ErrInvalidProduct.Error() + ": " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidProduct) true for any ValidationErrors.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidProduct
}

// Has reports whether a violation of the given kind was recorded for field.
func (v ValidationErrors) Has(kind ErrorKind, field string) bool {
	for _, e := range v {
		if e.Kind == kind && e.Field == field {
			return true
		}
	}
	return false
}

// AsValidationErrors unwraps err into ValidationErrors when possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"catalog-api/internal/domain"
)

// MaxBodyBytes caps request bodies decoded by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}

	if decoder.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FormatValidationErrors converts domain validation errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := domain.AsValidationErrors(err); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   e.Field,
				Code:    e.Kind.String(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errors
}

func getErrorMessage(e *domain.FieldError) string {
	switch {
	case e.Kind == domain.MissingField:
		return "This field is required"
	case e.Field == domain.FieldPrice:
		return "Price is required and must be greater than or equal to 0"
	case e.Field == domain.FieldImageURL:
		return "Must be a valid URL"
	default:
		return "Invalid value"
	}
}

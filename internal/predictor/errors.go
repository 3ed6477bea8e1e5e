package predictor

import (
	"errors"
	"fmt"

	"github.com/OldStager01/motortemp/pkg/validation"
)

// ErrServiceUnavailable is returned when the model artifacts are not loaded.
var ErrServiceUnavailable = errors.New("model not loaded")

// ValidationError is a client-correctable problem with the request.
type ValidationError struct {
	Message       string
	Field         string
	Value         interface{}
	MissingFields []string
	Err           error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InferenceError wraps an unexpected failure inside scaling or prediction.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func newValidationError(err error) *ValidationError {
	var missing *validation.MissingFieldsError
	if errors.As(err, &missing) {
		return &ValidationError{
			Message:       missing.Error(),
			MissingFields: missing.Fields,
			Err:           err,
		}
	}

	var field *validation.FieldError
	if errors.As(err, &field) {
		return &ValidationError{
			Message: field.Error(),
			Field:   field.Field,
			Value:   field.Value,
			Err:     err,
		}
	}

	return &ValidationError{Message: err.Error(), Err: err}
}

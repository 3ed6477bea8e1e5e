package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrRequestFailed   = errors.New("prediction request failed")
	ErrTimeout         = errors.New("prediction request timeout")
	ErrInvalidResponse = errors.New("invalid response from predictor")
)

// APIError is an error body returned by the predictor service.
type APIError struct {
	Status        int
	Code          string
	Message       string
	MissingFields []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("predictor returned %d", e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.MissingFields) > 0 {
		msg += " [" + strings.Join(e.MissingFields, ", ") + "]"
	}
	return msg
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// IsRetryable reports whether err is worth another attempt.
// Client-side rejections such as validation failures are not.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return err != nil
}

package clickupapi

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ValidationError reports a request that violates a cross-field
// invariant or a constrained value domain. It is raised synchronously
// before any request leaves the process and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// APIError is a non-2xx response from the ClickUp API. Code carries
// ClickUp's ECODE when the error body could be parsed.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("clickup: %s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("clickup: status %d: %s", e.Status, e.Message)
}

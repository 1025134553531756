package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes handlers translate to HTTP
// statuses. NotFound deliberately covers both absent entities and entities
// outside the caller's tenant.
var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	ErrDelivery  = errors.New("email delivery failed")
)

// InvariantViolation reports a domain rule rejection, such as removing the
// last admin of an organization.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return e.Reason
}

func Invariant(format string, args ...interface{}) *InvariantViolation {
	return &InvariantViolation{Reason: fmt.Sprintf(format, args...)}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects malformed input before any domain logic runs.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

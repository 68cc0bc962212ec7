package incidents

import "errors"

// NotFoundError reports that a referenced incident or event does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ValidationError reports caller-supplied data that violates a field or
// status-transition constraint.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrIncidentNotFound = &NotFoundError{Message: "Incident not found"}
	ErrEventNotFound    = &NotFoundError{Message: "Event not found"}
)

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

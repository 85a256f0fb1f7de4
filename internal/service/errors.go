package service

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when the principal is neither an admin
// nor the owner nor a member of the target list. The message is part
// of the API contract.
var ErrNotAuthorized = errors.New("not authorized for this list")

// ValidationError reports a request that is structurally well-formed
// but semantically unacceptable.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

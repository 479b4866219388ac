package content

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("content: not found")
	ErrAlreadyExists = errors.New("content: already exists")
)

// ValidationError reports a missing or malformed input field. It is always
// recoverable locally: the single request is rejected with a field-level
// message.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

func requiredField(field string) error {
	return &ValidationError{Field: field, Msg: "is required"}
}

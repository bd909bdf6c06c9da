package steptype

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyInitialized = errors.New("step already initialized")
	ErrEmptyName          = errors.New("step type name is empty")
	ErrNilProducer        = errors.New("step type producer is nil")
)

// DuplicateNameError is returned when a step type name is registered twice.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("step type %q already registered", e.Name)
}

// UnknownTypeError is returned when resolving a name nobody registered.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown step type: %s", e.Name)
}

// ValidationError rejects an answer. Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid answer: " + e.Message
}

// Invalid returns a ValidationError carrying a user-facing message.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

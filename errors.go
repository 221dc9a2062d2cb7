package knobs

import (
	"errors"
	"fmt"
)

var (
	// ErrCast matches every *CastError.
	ErrCast = errors.New("knobs: cannot cast value")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("knobs: invalid value")
	// ErrNotSet is returned by Remove when the variable is not set.
	ErrNotSet = errors.New("knobs: environment variable not set")
)

// CastError reports an environment value that cannot be converted to the
// knob's kind. It means the configuration is broken.
type CastError struct {
	Name string
	Raw  string
	Kind Kind
	Err  error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("knob %s: cannot cast %q to %s: %v", e.Name, e.Raw, e.Kind, e.Err)
}

func (e *CastError) Unwrap() []error { return []error{ErrCast, e.Err} }

// ValidationError reports a value rejected by the knob's validator.
type ValidationError struct {
	Name string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("knob %s: %v", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() []error { return []error{ErrValidation, e.Err} }

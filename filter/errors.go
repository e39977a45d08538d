package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter is the sentinel matched by InvalidFilterError.
	ErrInvalidFilter = errors.New("filter: invalid filter")

	// ErrTypeMismatch is the sentinel matched by TypeMismatchError.
	ErrTypeMismatch = errors.New("filter: type mismatch")

	// ErrConfiguration is the sentinel matched by ConfigurationError.
	ErrConfiguration = errors.New("filter: invalid configuration")
)

// InvalidFilterError is returned when a filter or condition key is not part
// of the supported vocabulary.
type InvalidFilterError struct {
	Key string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("filter: %q is not a valid filter or condition", e.Key)
}

func (e *InvalidFilterError) Unwrap() error { return ErrInvalidFilter }

// TypeMismatchError is returned when a known filter or condition receives a
// value of the wrong shape.
type TypeMismatchError struct {
	Key   string
	Value any
	Want  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("filter: %q expects %s, got %T", e.Key, e.Want, e.Value)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ConfigurationError is returned when a builder is used in an unusable way,
// e.g. a parameter filter with zero conditions.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "filter: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Package utils provides small, dependency-free helpers shared across the
// copc packages: error wrapping, and overflow and size checks on the sizes
// found in COPC metadata.
package utils

import "fmt"

// CopcError is a contextual error, wrapping a lower-level cause with a short
// description of what this module was doing when it surfaced.
type CopcError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *CopcError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Is / errors.As.
func (e *CopcError) Unwrap() error {
	return e.Cause
}

// WrapError attaches context to cause. Returns nil if cause is nil, so it is
// safe to use as `return utils.WrapError("...", err)` at the end of a
// function.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &CopcError{Context: context, Cause: cause}
}

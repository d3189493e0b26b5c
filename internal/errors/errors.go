package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for different categories
var (
	// ErrInvalidInput - caller supplied input that fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - resource not found
	ErrNotFound = errors.New("not found")

	// ErrTransient - transient error (endpoint unreachable, timeout)
	ErrTransient = errors.New("transient error")

	// ErrInvalidModelOutput - model returned a malformed response
	ErrInvalidModelOutput = errors.New("invalid model output")

	// ErrTurnLimit - conversation exceeded the configured turn budget
	ErrTurnLimit = errors.New("turn limit reached")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapWithCategory wraps an error with context and tags it with a
// category sentinel so callers can errors.Is on the category.
func WrapWithCategory(err error, message string, category error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %v: %w", message, err, category)
}

// NotFound wraps a message as not found.
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// InvalidInput wraps a message as invalid input.
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Transient wraps a message as transient.
func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

// InvalidModelOutput wraps a message as invalid model output.
func InvalidModelOutput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidModelOutput)
}

// Internal wraps a message as internal.
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

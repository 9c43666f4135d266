// ABOUTME: Custom error types for the reconciliation core
// ABOUTME: Provides structured errors so callers can branch on failure class

package errors

import (
	"errors"
	"fmt"
)

// InvalidInputError indicates a required derivation input was absent, eg.
// every slug name candidate was empty. Caller error; fix upstream, never retry.
type InvalidInputError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for '%s': %s", e.Field, e.Message)
}

// SlugSpaceExhaustedError indicates every disambiguating suffix collided.
// Fatal for the insertion attempt; signals a pathological collision cluster
// or an undersized suffix pool.
type SlugSpaceExhaustedError struct {
	Name string
}

// Error implements the error interface
func (e *SlugSpaceExhaustedError) Error() string {
	return fmt.Sprintf("slug space exhausted: too many collisions of %q", e.Name)
}

// UntokenizableFieldError indicates a search field held a value that is
// neither string, list nor absent: a schema invariant breach upstream. The
// whole index build fails rather than silently mis-tokenizing.
type UntokenizableFieldError struct {
	Field string
	Value any
}

// Error implements the error interface
func (e *UntokenizableFieldError) Error() string {
	return fmt.Sprintf("field %s has untokenizable type %T", e.Field, e.Value)
}

// DuplicateKeyError indicates an insert collided with an existing primary key.
type DuplicateKeyError struct {
	Key string
}

// Error implements the error interface
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s", e.Key)
}

// NotFoundError indicates a record lookup found nothing.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ExternalAPIError represents an error from a scraped external source.
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// IsInvalidInput checks if an error is an InvalidInputError
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsSlugSpaceExhausted checks if an error is a SlugSpaceExhaustedError
func IsSlugSpaceExhausted(err error) bool {
	var target *SlugSpaceExhaustedError
	return errors.As(err, &target)
}

// IsUntokenizableField checks if an error is an UntokenizableFieldError
func IsUntokenizableField(err error) bool {
	var target *UntokenizableFieldError
	return errors.As(err, &target)
}

// IsDuplicateKey checks if an error is a DuplicateKeyError
func IsDuplicateKey(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var target *ExternalAPIError
	return errors.As(err, &target)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

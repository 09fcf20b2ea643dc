package airbnb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLocator is matched by every InvalidLocatorError.
	ErrInvalidLocator = errors.New("invalid Airbnb listing locator")
	// ErrNoReviews marks an attempt that completed but accepted no review text.
	ErrNoReviews = errors.New("no reviews found")
	// ErrAllTiersExhausted means not even the synthetic tier produced a result.
	ErrAllTiersExhausted = errors.New("all acquisition tiers exhausted")
)

// InvalidLocatorError carries the locator that failed extraction.
type InvalidLocatorError struct {
	Locator string
}

func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf("invalid Airbnb listing locator %q: expected a /rooms/<id> path", e.Locator)
}

func (e *InvalidLocatorError) Is(target error) bool {
	return target == ErrInvalidLocator
}

// FetchError describes a failed HTTP request.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

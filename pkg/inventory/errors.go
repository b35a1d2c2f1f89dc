package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the inventory package.
var (
	// ErrMissingIdentifier is returned when no account identifier is given.
	ErrMissingIdentifier = errors.New("account identifier is required")

	// ErrInvalidIdentifier is returned when the account identifier cannot be
	// normalized to a SteamID64.
	ErrInvalidIdentifier = errors.New("invalid account identifier")

	// ErrInvalidLanguage is returned for a language outside the known table.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrNoConfiguration is returned when a fetcher is built without a
	// configuration source.
	ErrNoConfiguration = errors.New("no configuration provided")

	// ErrMalformedResponse is returned when a page fails the
	// success/assets/descriptions check.
	ErrMalformedResponse = errors.New("malformed response")
)

// LanguageError reports an unsupported language together with the codes
// that would have been accepted.
type LanguageError struct {
	Language string
	Valid    []string
}

// Error implements the error interface.
func (e *LanguageError) Error() string {
	return fmt.Sprintf("invalid language: %s. Possible languages: %s",
		e.Language, strings.Join(e.Valid, ", "))
}

// Is makes errors.Is(err, ErrInvalidLanguage) succeed.
func (e *LanguageError) Is(target error) bool {
	return target == ErrInvalidLanguage
}

// ResponseError describes a page that could not be used. Err holds the
// underlying cause: a decode failure or the transport error that left the
// page empty.
type ResponseError struct {
	// Page is the 1-based index of the request within the fetch.
	Page int

	// Reason is a short description of the failed check.
	Reason string

	// ItemsFetched is the number of items merged from earlier pages before
	// the fetch was aborted.
	ItemsFetched int

	Err error
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response (page %d): %s: %v", e.Page, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response (page %d): %s", e.Page, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedResponse) succeed.
func (e *ResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ResponseError) Unwrap() error {
	return e.Err
}

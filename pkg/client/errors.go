package client

import (
	"errors"
	"fmt"
)

// RequestError represents a failed inventory request with additional context.
type RequestError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("steam %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("steam %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Classify returns the ErrorClass of the first *RequestError in err's
// chain, or "" if there is none.
func Classify(err error) ErrorClass {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ErrorClass
	}
	return ""
}

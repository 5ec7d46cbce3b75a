package github

import "fmt"

// TransportError means the gh binary could not be reached or run at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gh unavailable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError means a single gh call exceeded its deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gh call timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// APIError is a protocol-level error reported inside a well-formed response
// envelope (rate limits, auth, schema). Kept distinct from decode failures.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: %s", e.Message)
}

// InvalidResponseError means the response envelope itself could not be
// decoded.
type InvalidResponseError struct {
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

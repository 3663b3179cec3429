package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for the API's failure modes. Match them with [errors.Is].
var (
	// ErrUnauthorized is returned when the API rejects the credentials.
	ErrUnauthorized = errors.New("invalid api credentials")
	// ErrRateLimited is returned when the account got rate limited.
	// The scheduler package recovers from it by retrying.
	ErrRateLimited = errors.New("account got rate limited")
	// ErrInvalidQuery is returned when the query is missing or invalid.
	ErrInvalidQuery = errors.New("query is missing or invalid")
	// ErrNetwork wraps transport-level failures.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedResponse wraps failures to decode the response body.
	ErrMalformedResponse = errors.New("malformed api response")
	// ErrUnknown is returned for failures the API doesn't explain,
	// including unexpected status codes.
	ErrUnknown = errors.New("unknown api error")
)

// UnexpectedStatusError is returned when the API responds with a status
// code outside its documented set. It wraps [ErrUnknown].
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

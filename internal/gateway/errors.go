package gateway

import (
	"errors"
	"fmt"
)

// ErrFetchInProgress signals that a request for the same key is already in
// flight and the duplicate was dropped. It is not a true failure: callers
// must not assume a response and should rely on the eventual state update
// from the original call.
var ErrFetchInProgress = errors.New("fetch already in progress")

// NetworkError captures a transport failure or a non-2xx upstream status.
type NetworkError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Body != "":
		return fmt.Sprintf("request to %s failed: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case e.StatusCode > 0:
		return fmt.Sprintf("request to %s failed: status %d", e.Endpoint, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("request to %s failed", e.Endpoint)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AsNetworkError attempts to unwrap an error into a NetworkError.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}

// FormatError captures a 2xx response whose body matched none of the
// recognized shapes.
type FormatError struct {
	Endpoint string
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unexpected response format from %s: %s", e.Endpoint, e.Reason)
}

// AsFormatError attempts to unwrap an error into a FormatError.
func AsFormatError(err error) (*FormatError, bool) {
	var fmtErr *FormatError
	if errors.As(err, &fmtErr) {
		return fmtErr, true
	}
	return nil, false
}

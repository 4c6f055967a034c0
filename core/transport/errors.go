package transport

import (
	"errors"
	"fmt"
)

// ErrTransportFailure is matched by every non-2xx response and request error.
var ErrTransportFailure = errors.New("transport failure")

// TransportError carries the context of a failed call.
type TransportError struct {
	Method string
	URL    string
	// Status is 0 when no response was received.
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.URL, e.Status)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

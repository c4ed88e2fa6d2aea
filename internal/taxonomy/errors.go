package taxonomy

import "fmt"

// TransportError is returned when the taxonomy endpoint cannot be
// reached or reports failure: a connection-level error, a status outside
// the 2xx family, a 2xx status other than 200, or GraphQL errors in the
// response body. Fetches are never retried; a TransportError ends the
// run.
type TransportError struct {
	URL        string
	StatusCode int    // zero when the request never completed
	Detail     string // response body excerpt or remote error messages
	Err        error  // underlying transport error, if any
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("taxonomy: request to %s failed: %v", e.URL, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("taxonomy: %s: %s (status %d)", e.URL, e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("taxonomy: %s returned status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying transport error, if any.
func (e *TransportError) Unwrap() error { return e.Err }

// ShapeError is returned when the response's data field does not carry a
// taxonomy list: the field is missing, null, or not a JSON array of
// entries.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("taxonomy: malformed payload: %s", e.Reason)
}

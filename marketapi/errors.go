package marketapi

import "fmt"

// TransportError reports a non-success HTTP status or a failed round trip.
// The failing status and the raw response body are embedded so the page that
// initiated the call can surface the reason.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("market api: request failed: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("market api: unexpected status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("market api: unexpected status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

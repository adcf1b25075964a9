package clients

import "fmt"

// TransportError is a network-level failure reaching a backend service:
// DNS, connection refused, timeout. Never retried automatically.
type TransportError struct {
	Service       string
	Description   string
	CorrelationID string
	Err           error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling %s to %s: %v", e.Service, e.Description, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError is a backend response with a status outside the
// accepted set for the call.
type UnexpectedStatusError struct {
	Service       string
	Description   string
	CorrelationID string
	Status        int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("calling %s to %s: unexpected status %d", e.Service, e.Description, e.Status)
}

package cloud

import "errors"

// Domain-specific errors for cloud session operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMalformedPayload is returned when an inbound message cannot be decoded.
	ErrMalformedPayload = errors.New("cloud: malformed payload")

	// ErrInvalidIdentifier is returned when a publish names an empty service
	// or property identifier.
	ErrInvalidIdentifier = errors.New("cloud: service and property identifiers must be non-empty")

	// ErrSessionClosed is returned when operations are attempted on a closed session.
	ErrSessionClosed = errors.New("cloud: session closed")
)

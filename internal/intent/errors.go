package intent

import "errors"

// Domain-specific errors for intent routing.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrIntensityOutOfRange is returned when a requested intensity lies
	// outside [0,255].
	ErrIntensityOutOfRange = errors.New("intent: intensity out of range")

	// ErrNoSuchKindDevice is returned when a kind-wide intent matches no
	// registered device.
	ErrNoSuchKindDevice = errors.New("intent: no device of the requested kind")
)

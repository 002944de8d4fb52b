package device

import "errors"

// Domain-specific errors for device operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDeviceNotFound is returned when a device id does not exist in the registry.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrInvalidSeed is returned when a seed entry fails validation.
	ErrInvalidSeed = errors.New("device: invalid seed entry")

	// ErrInvalidKind is returned when a seed names a kind outside the closed set.
	ErrInvalidKind = errors.New("device: invalid kind")

	// ErrValueOutOfRange is returned when a light value falls outside [0,255].
	ErrValueOutOfRange = errors.New("device: value out of range")
)

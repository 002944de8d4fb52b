package assistant

import "errors"

// Domain-specific errors for the assistant.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnavailable is returned when the assistant is disabled in config or
	// no API key is set.
	ErrUnavailable = errors.New("assistant: not available")

	// ErrEmptyMessage is returned when a chat turn carries no text.
	ErrEmptyMessage = errors.New("assistant: empty message")

	// ErrInvalidAction is returned when the model requests a control call
	// with missing or unknown arguments.
	ErrInvalidAction = errors.New("assistant: invalid control action")
)

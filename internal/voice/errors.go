package voice

import "errors"

// Domain-specific errors for voice capture and transcription.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrCaptureUnavailable is returned when this build has no audio backend
	// or the microphone has not been started.
	ErrCaptureUnavailable = errors.New("voice: capture not available")

	// ErrTranscriptionUnavailable is returned when no STT API key is set.
	ErrTranscriptionUnavailable = errors.New("voice: transcription not configured")

	// ErrTranscriptionFailed is returned when the transcription API rejected
	// the upload after all retries.
	ErrTranscriptionFailed = errors.New("voice: transcription failed")

	// ErrEmptyTranscript is returned when recognition produced no words.
	ErrEmptyTranscript = errors.New("voice: empty transcript")
)

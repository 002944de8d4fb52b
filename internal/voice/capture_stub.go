//go:build !portaudio

package voice

import "context"

// Microphone stub for builds without the portaudio tag. It reports itself
// unavailable so the API surfaces the missing capability instead of failing
// at startup.
type Microphone struct {
	logger Logger
}

// NewMicrophone creates the stub microphone.
func NewMicrophone(sampleRate int) *Microphone {
	return &Microphone{logger: noopLogger{}}
}

// SetLogger sets the logger for the microphone.
func (m *Microphone) SetLogger(logger Logger) {
	m.logger = logger
}

// Available reports whether this build can capture audio.
func (m *Microphone) Available() bool { return false }

// Start is a no-op in audio-less builds.
func (m *Microphone) Start() error { return nil }

// Stop is a no-op in audio-less builds.
func (m *Microphone) Stop() error { return nil }

// Capture always fails in audio-less builds.
func (m *Microphone) Capture(_ context.Context) ([]byte, error) {
	return nil, ErrCaptureUnavailable
}

//go:build portaudio

package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Microphone captures spoken commands from the default input device.
// Available only in builds with the portaudio tag; other builds get the
// stub in capture_stub.go.
type Microphone struct {
	sampleRate int
	logger     Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	frame   []int16
	started bool
}

// NewMicrophone creates a microphone capture source.
// Call Start before Capture and Stop at shutdown.
func NewMicrophone(sampleRate int) *Microphone {
	return &Microphone{
		sampleRate: sampleRate,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the microphone.
func (m *Microphone) SetLogger(logger Logger) {
	m.logger = logger
}

// Available reports whether this build can capture audio.
func (m *Microphone) Available() bool { return true }

// Start initializes the audio backend and opens the input stream.
func (m *Microphone) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing audio backend: %w", err)
	}

	m.frame = make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), framesPerBuffer, m.frame)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("starting input stream: %w", err)
	}

	m.stream = stream
	m.started = true
	m.logger.Info("microphone started", "sample_rate", m.sampleRate)
	return nil
}

// Stop closes the input stream and shuts the audio backend down.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}

	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
		m.stream = nil
	}
	portaudio.Terminate()
	m.started = false
	return nil
}

// Capture records one spoken command and returns it as WAV bytes.
//
// Recording runs until a trailing second of silence follows at least one
// second of speech, or the hard cap of ten seconds is reached. The context
// cancels a capture in progress.
func (m *Microphone) Capture(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return nil, ErrCaptureUnavailable
	}
	stream, frame := m.stream, m.frame
	m.mu.Unlock()

	samples := make([]int16, 0, m.sampleRate*5)
	silentSamples := 0
	minSamples := m.sampleRate
	maxSamples := m.sampleRate * 10

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading audio frame: %w", err)
		}
		samples = append(samples, frame...)

		if frameIsSilent(frame) {
			silentSamples += len(frame)
		} else {
			silentSamples = 0
		}

		if silentSamples > m.sampleRate && len(samples) > minSamples {
			break
		}
		if len(samples) > maxSamples {
			break
		}
	}

	m.logger.Debug("capture complete", "samples", len(samples))
	return encodeWAV(samples, m.sampleRate), nil
}

const (
	framesPerBuffer  = 1024
	silenceThreshold = 500
)

func frameIsSilent(frame []int16) bool {
	for _, s := range frame {
		if s > silenceThreshold || s < -silenceThreshold {
			return false
		}
	}
	return true
}

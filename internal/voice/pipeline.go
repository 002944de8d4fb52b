package voice

import (
	"context"
	"strings"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CaptureSource is one microphone implementation (real or stub).
type CaptureSource interface {
	Available() bool
	Start() error
	Stop() error
	Capture(ctx context.Context) ([]byte, error)
}

// Pipeline joins a capture source with a transcriber: one Listen call
// records a spoken command and returns its text. The caller decides what to
// do with the transcript, usually handing it to the assistant.
type Pipeline struct {
	source CaptureSource
	stt    Transcriber
	logger Logger
}

// NewPipeline creates a capture-and-transcribe pipeline.
func NewPipeline(source CaptureSource, stt Transcriber) *Pipeline {
	return &Pipeline{
		source: source,
		stt:    stt,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the pipeline.
func (p *Pipeline) SetLogger(logger Logger) {
	p.logger = logger
}

// Available reports whether this build and configuration can process voice.
func (p *Pipeline) Available() bool {
	return p.source.Available()
}

// Close stops the capture source and releases the audio backend.
func (p *Pipeline) Close() error {
	return p.source.Stop()
}

// Listen records one spoken command and returns its transcript.
//
// Returns:
//   - string: the recognized text, trimmed
//   - error: ErrCaptureUnavailable in audio-less builds, ErrEmptyTranscript
//     when recognition produced no words, or a transcription error
func (p *Pipeline) Listen(ctx context.Context) (string, error) {
	audio, err := p.source.Capture(ctx)
	if err != nil {
		return "", err
	}

	text, err := p.stt.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	p.logger.Info("voice command transcribed", "text", text)
	return text, nil
}

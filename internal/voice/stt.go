package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Transcriber turns captured audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

const (
	defaultSTTBaseURL = "https://api.openai.com/v1"
	sttModel          = "whisper-1"
	sttTimeout        = 30 * time.Second
	sttMaxAttempts    = 3
	sttRetryDelay     = time.Second
)

// STTClient transcribes WAV audio through the hosted Whisper endpoint.
type STTClient struct {
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewSTTClient creates a speech-to-text client.
//
// Parameters:
//   - apiKey: bearer token for the transcription API
//   - language: ISO-639-1 hint passed with every upload
func NewSTTClient(apiKey, language string) *STTClient {
	return &STTClient{
		apiKey:     apiKey,
		language:   language,
		baseURL:    defaultSTTBaseURL,
		httpClient: &http.Client{Timeout: sttTimeout},
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *STTClient) SetLogger(logger Logger) {
	c.logger = logger
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *STTClient) SetBaseURL(url string) {
	c.baseURL = url
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads one WAV capture and returns the recognized text.
// Transient upstream failures (429, 5xx) are retried a bounded number of
// times before the error is surfaced.
func (c *STTClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrTranscriptionUnavailable
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty capture", ErrTranscriptionFailed)
	}

	var lastErr error
	for attempt := 1; attempt <= sttMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(sttRetryDelay):
			}
		}

		text, retryable, err := c.upload(ctx, audio)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.Warn("transcription attempt failed, retrying",
			"attempt", attempt,
			"error", err,
		)
	}
	return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, lastErr)
}

// upload performs a single multipart POST to the transcription endpoint.
// The second return value reports whether the failure is worth retrying.
func (c *STTClient) upload(ctx context.Context, audio []byte) (string, bool, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "capture.wav")
	if err != nil {
		return "", false, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", false, fmt.Errorf("writing audio: %w", err)
	}
	if err := writer.WriteField("model", sttModel); err != nil {
		return "", false, fmt.Errorf("writing model field: %w", err)
	}
	if c.language != "" {
		if err := writer.WriteField("language", c.language); err != nil {
			return "", false, fmt.Errorf("writing language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", false, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("transcription API status %d: %s", resp.StatusCode, respBody)
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", false, fmt.Errorf("decoding response: %w", err)
	}
	return result.Text, false, nil
}

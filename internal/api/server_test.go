package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/cloud"
	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
	"github.com/lumina-home/lumina-core/internal/infrastructure/logging"
	"github.com/lumina-home/lumina-core/internal/intent"
)

// nullPublisher satisfies the intent publisher without a broker.
type nullPublisher struct {
	calls int
}

func (p *nullPublisher) Publish(_, _ string, _ float64) error {
	p.calls++
	return nil
}

func floatPtr(v float64) *float64 { return &v }

// newTestServer builds a server over a seeded registry, no broker, no
// assistant and no voice pipeline.
func newTestServer(t *testing.T) (*Server, *nullPublisher) {
	t.Helper()

	registry := device.NewRegistry()
	err := registry.Seed([]device.Device{
		{ID: "l1", Name: "Ceiling Light", Kind: device.KindLight, Value: floatPtr(255)},
		{ID: "d1", Name: "Front Door", Kind: device.KindDoor, On: true},
		{ID: "a1", Name: "Living Room AC", Kind: device.KindAC, On: true, Value: floatPtr(24), Unit: "°C"},
	})
	if err != nil {
		t.Fatalf("seeding registry: %v", err)
	}
	registry.SetEnvironment(device.Environment{Temperature: 21.5, Humidity: 40, AirQuality: "good"})

	pub := &nullPublisher{}
	binding := config.ServiceBinding{DeviceID: "l1", ServiceID: "light", PropertyID: "dengguang"}

	s, err := New(Deps{
		Config:   config.APIConfig{},
		WS:       config.WebSocketConfig{MaxMessageSize: 4096, PingInterval: 30, PongTimeout: 60},
		Cloud:    config.CloudConfig{Auth: config.BrokerAuth{Username: "dev-001"}, Region: "cn-north-4", Service: binding},
		Logger:   logging.Default(),
		Registry: registry,
		Intents:  intent.NewRouter(registry, pub, binding),
		Activity: activity.NewLog(),
		Notifier: cloud.NewStatusNotifier(),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, pub
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["cloud"] != string(cloud.StatusConnecting) {
		t.Errorf("cloud status = %v, want connecting before any connect", body["cloud"])
	}
	if body["devices"] != float64(3) {
		t.Errorf("devices = %v, want 3", body["devices"])
	}
	if body["identity"] != "dev-001" || body["region"] != "cn-north-4" {
		t.Errorf("broker identity = %v/%v", body["identity"], body["region"])
	}
}

func TestEnvironmentEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/environment", nil)
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["temperature"] != 21.5 || body["air_quality"] != "good" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	// A client-supplied id is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec2 := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec2, req)
	if got := rec2.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}

func TestAssistantUnavailable(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/assistant/chat", map[string]string{"message": "hi"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without an assistant", rec.Code)
	}
}

func TestVoiceUnavailable(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/voice/listen", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without a voice pipeline", rec.Code)
	}
}

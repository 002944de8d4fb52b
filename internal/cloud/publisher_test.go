package cloud

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lumina-home/lumina-core/internal/activity"
)

func newTestPublisher(broker *fakeBroker) (*Publisher, *activity.Log) {
	log := activity.NewLog()
	p := NewPublisher(testCloudConfig(), broker, log)
	p.now = func() time.Time {
		return time.Date(2026, 1, 7, 16, 0, 0, 0, time.UTC)
	}
	return p, log
}

func TestPublisherHappyPath(t *testing.T) {
	broker := newFakeBroker()
	broker.connected = true
	p, log := newTestPublisher(broker)

	if err := p.Publish("light", "dengguang", 0); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(broker.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(broker.published))
	}
	call := broker.published[0]
	if want := "$oc/devices/dev-001/sys/properties/report"; call.topic != want {
		t.Errorf("topic = %q, want %q", call.topic, want)
	}
	if call.qos != 1 {
		t.Errorf("qos = %d, want 1", call.qos)
	}
	if call.retained {
		t.Error("retained = true, want false")
	}

	want := `{"services":[{"service_id":"light","properties":{"dengguang":0},"event_time":"2026-01-07T16:00:00Z"}]}`
	if got := string(call.payload); got != want {
		t.Errorf("payload = %s, want %s", got, want)
	}

	entries := log.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "reported light.dengguang = 0") {
		t.Errorf("activity entries = %v, want one report entry", entries)
	}
}

func TestPublisherOfflineIsNoOp(t *testing.T) {
	broker := newFakeBroker()
	p, log := newTestPublisher(broker)

	if err := p.Publish("light", "dengguang", 255); err != nil {
		t.Fatalf("Publish() while offline error = %v, want nil", err)
	}
	if len(broker.published) != 0 {
		t.Errorf("published %d messages while offline, want 0", len(broker.published))
	}

	entries := log.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "skipped") {
		t.Errorf("activity entries = %v, want one skip entry", entries)
	}
}

func TestPublisherRejectsEmptyIdentifiers(t *testing.T) {
	broker := newFakeBroker()
	broker.connected = true
	p, _ := newTestPublisher(broker)

	tests := []struct {
		name       string
		serviceID  string
		propertyID string
	}{
		{"empty service", "", "dengguang"},
		{"empty property", "light", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Publish(tt.serviceID, tt.propertyID, 100)
			if !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("Publish(%q, %q) error = %v, want ErrInvalidIdentifier",
					tt.serviceID, tt.propertyID, err)
			}
		})
	}
	if len(broker.published) != 0 {
		t.Errorf("published %d messages, want 0", len(broker.published))
	}
}

func TestPublisherTransportErrorIsSurfaced(t *testing.T) {
	broker := newFakeBroker()
	broker.connected = true
	broker.publishErr = errors.New("token timeout")
	p, log := newTestPublisher(broker)

	err := p.Publish("light", "dengguang", 128)
	if err == nil {
		t.Fatal("Publish() error = nil, want non-nil")
	}

	entries := log.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "failed") {
		t.Errorf("activity entries = %v, want one failure entry", entries)
	}
}

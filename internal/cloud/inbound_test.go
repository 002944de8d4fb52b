package cloud

import (
	"errors"
	"strings"
	"testing"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
)

func newTestInbound(t *testing.T) (*Inbound, *device.Registry, *activity.Log) {
	t.Helper()

	registry := device.NewRegistry()
	value := 255.0
	err := registry.Seed([]device.Device{
		{ID: "l1", Name: "Ceiling Light", Kind: device.KindLight, On: true, Value: &value},
	})
	if err != nil {
		t.Fatalf("seeding registry: %v", err)
	}

	binding := config.ServiceBinding{DeviceID: "l1", ServiceID: "light", PropertyID: "dengguang"}
	log := activity.NewLog()
	return NewInbound(binding, registry, log), registry, log
}

func TestInboundAppliesMatchingProperty(t *testing.T) {
	h, registry, log := newTestInbound(t)

	payload := []byte(`{"services":[{"service_id":"light","properties":{"dengguang":128}}]}`)
	if err := h.Handle("$oc/devices/dev-001/sys/properties/set/request_id=1", payload); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	d, err := registry.Get("l1")
	if err != nil {
		t.Fatalf("Get(l1) error = %v", err)
	}
	if !d.On {
		t.Error("device off after a non-zero cloud write, want on")
	}
	if d.Value == nil || *d.Value != 128 {
		t.Errorf("device value = %v, want 128", d.Value)
	}

	entries := log.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "cloud set light.dengguang = 128") {
		t.Errorf("activity entries = %v, want one cloud-set entry", entries)
	}
}

func TestInboundZeroTurnsLightOff(t *testing.T) {
	h, registry, _ := newTestInbound(t)

	payload := []byte(`{"services":[{"service_id":"light","properties":{"dengguang":0}}]}`)
	if err := h.Handle("set", payload); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	d, _ := registry.Get("l1")
	if d.On {
		t.Error("device on after a zero cloud write, want off")
	}
}

func TestInboundIgnoresOtherServices(t *testing.T) {
	h, registry, log := newTestInbound(t)

	payload := []byte(`{"services":[
		{"service_id":"hvac","properties":{"dengguang":10}},
		{"service_id":"light","properties":{"brightness":10}}
	]}`)
	if err := h.Handle("set", payload); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	d, _ := registry.Get("l1")
	if d.Value == nil || *d.Value != 255 {
		t.Errorf("device value = %v, want untouched 255", d.Value)
	}
	if log.Len() != 0 {
		t.Errorf("activity entries = %d, want 0", log.Len())
	}
}

func TestInboundDropsNonNumericValues(t *testing.T) {
	h, registry, _ := newTestInbound(t)

	payload := []byte(`{"services":[{"service_id":"light","properties":{"dengguang":"bright"}}]}`)
	if err := h.Handle("set", payload); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	d, _ := registry.Get("l1")
	if d.Value == nil || *d.Value != 255 {
		t.Errorf("device value = %v, want untouched 255", d.Value)
	}
}

func TestInboundMalformedPayload(t *testing.T) {
	h, registry, _ := newTestInbound(t)

	err := h.Handle("set", []byte(`{not json`))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Handle() error = %v, want ErrMalformedPayload", err)
	}

	d, _ := registry.Get("l1")
	if d.Value == nil || *d.Value != 255 {
		t.Errorf("device value = %v, want untouched 255", d.Value)
	}
}

func TestInboundOutOfRangeValueRejected(t *testing.T) {
	h, registry, log := newTestInbound(t)

	payload := []byte(`{"services":[{"service_id":"light","properties":{"dengguang":300}}]}`)
	if err := h.Handle("set", payload); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	d, _ := registry.Get("l1")
	if d.Value == nil || *d.Value != 255 {
		t.Errorf("device value = %v, want untouched 255", d.Value)
	}

	entries := log.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "rejected") {
		t.Errorf("activity entries = %v, want one rejection entry", entries)
	}
}

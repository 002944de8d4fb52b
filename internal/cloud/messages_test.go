package cloud

import (
	"testing"
	"time"
)

func TestNewPropertyReportEventTime(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "utc without fraction",
			at:   time.Date(2026, 1, 7, 16, 0, 0, 0, time.UTC),
			want: "2026-01-07T16:00:00Z",
		},
		{
			name: "fractional seconds are dropped",
			at:   time.Date(2026, 1, 7, 16, 0, 0, 123456789, time.UTC),
			want: "2026-01-07T16:00:00Z",
		},
		{
			name: "non-utc is normalized to zulu",
			at:   time.Date(2026, 1, 7, 18, 30, 0, 0, time.FixedZone("CET", 3600)),
			want: "2026-01-07T17:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPropertyReport("light", map[string]float64{"dengguang": 1}, tt.at)
			if got := r.Services[0].EventTime; got != tt.want {
				t.Errorf("EventTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeSetProperties(t *testing.T) {
	payload := []byte(`{"services":[{"service_id":"light","properties":{"dengguang":128}}]}`)

	cmd, err := DecodeSetProperties(payload)
	if err != nil {
		t.Fatalf("DecodeSetProperties() error = %v", err)
	}
	if len(cmd.Services) != 1 {
		t.Fatalf("services = %d, want 1", len(cmd.Services))
	}

	svc := cmd.Services[0]
	if svc.ServiceID != "light" {
		t.Errorf("service_id = %q, want %q", svc.ServiceID, "light")
	}
	v, ok := numericValue(svc.Properties["dengguang"])
	if !ok || v != 128 {
		t.Errorf("dengguang = %v (numeric=%v), want 128", v, ok)
	}
}

func TestNumericValue(t *testing.T) {
	if _, ok := numericValue("255"); ok {
		t.Error("numericValue accepted a string")
	}
	if _, ok := numericValue(true); ok {
		t.Error("numericValue accepted a bool")
	}
	if _, ok := numericValue(nil); ok {
		t.Error("numericValue accepted nil")
	}
	if v, ok := numericValue(float64(0)); !ok || v != 0 {
		t.Errorf("numericValue(0) = %v, %v", v, ok)
	}
}

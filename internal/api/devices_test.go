package api

import (
	"net/http"
	"testing"
)

func TestListDevices(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/devices/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Devices []deviceJSON `json:"devices"`
	}
	decodeBody(t, rec, &body)
	if len(body.Devices) != 3 {
		t.Fatalf("devices = %d, want 3", len(body.Devices))
	}
	// Seed order is preserved.
	if body.Devices[0].ID != "l1" || body.Devices[2].ID != "a1" {
		t.Errorf("device order = %v", body.Devices)
	}
}

func TestGetDevice(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/devices/l1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var d deviceJSON
	decodeBody(t, rec, &d)
	if d.ID != "l1" || d.Kind != "light" || !d.On {
		t.Errorf("device = %+v", d)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/devices/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown device", rec.Code)
	}
}

func TestToggleDevice(t *testing.T) {
	s, pub := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/devices/l1/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var d deviceJSON
	decodeBody(t, rec, &d)
	if d.On {
		t.Error("device on after toggle, want off")
	}
	// The synchronized device reports to the cloud on toggle.
	if pub.calls != 1 {
		t.Errorf("publisher calls = %d, want 1", pub.calls)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/v1/devices/ghost/toggle", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown device", rec.Code)
	}
}

func TestSetIntensity(t *testing.T) {
	s, pub := newTestServer(t)

	rec := doRequest(t, s, http.MethodPut, "/api/v1/devices/l1/intensity", map[string]float64{"value": 128})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var d deviceJSON
	decodeBody(t, rec, &d)
	if d.Value == nil || *d.Value != 128 || !d.On {
		t.Errorf("device = %+v, want on at 128", d)
	}
	if pub.calls != 1 {
		t.Errorf("publisher calls = %d, want 1", pub.calls)
	}
}

func TestSetIntensityValidation(t *testing.T) {
	s, pub := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"out of range high", map[string]float64{"value": 300}, http.StatusBadRequest},
		{"out of range low", map[string]float64{"value": -5}, http.StatusBadRequest},
		{"missing value", map[string]string{"level": "high"}, http.StatusBadRequest},
		{"not json", "plain text", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPut, "/api/v1/devices/l1/intensity", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if pub.calls != 0 {
		t.Errorf("publisher calls = %d, want 0 for rejected requests", pub.calls)
	}
}

func TestSetClimateTarget(t *testing.T) {
	s, pub := newTestServer(t)

	rec := doRequest(t, s, http.MethodPut, "/api/v1/climate/target", map[string]float64{"value": 22})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["updated"] != float64(1) {
		t.Errorf("updated = %v, want 1", body["updated"])
	}

	// Climate is local-only.
	if pub.calls != 0 {
		t.Errorf("publisher calls = %d, want 0", pub.calls)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/devices/a1", nil)
	var d deviceJSON
	decodeBody(t, rec, &d)
	if d.Value == nil || *d.Value != 22 {
		t.Errorf("ac value = %v, want 22", d.Value)
	}
}

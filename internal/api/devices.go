package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/intent"
)

// deviceJSON is the wire form of one device.
type deviceJSON struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	On    bool     `json:"on"`
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

func toDeviceJSON(d *device.Device) deviceJSON {
	return deviceJSON{
		ID:    d.ID,
		Name:  d.Name,
		Kind:  string(d.Kind),
		On:    d.On,
		Value: d.Value,
		Unit:  d.Unit,
	}
}

// handleListDevices returns all devices in seed order.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.registry.List()
	out := make([]deviceJSON, len(devices))
	for i := range devices {
		out[i] = toDeviceJSON(&devices[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": out})
}

// handleGetDevice returns a single device by id.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.registry.Get(id)
	if err != nil {
		writeNotFound(w, "device not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, toDeviceJSON(d))
}

// handleToggleDevice flips a device on or off through the intent router.
func (s *Server) handleToggleDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.intents.Toggle(id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeInternalError(w, "toggle failed")
		return
	}

	s.broadcastDeviceState(d)
	writeJSON(w, http.StatusOK, toDeviceJSON(d))
}

// intensityRequest is the body for PUT /devices/{id}/intensity.
type intensityRequest struct {
	Value *float64 `json:"value"`
}

// handleSetIntensity sets a light's intensity through the intent router.
func (s *Server) handleSetIntensity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req intensityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeBadRequest(w, "body must be {\"value\": <0..255>}")
		return
	}

	d, err := s.intents.SetIntensity(id, *req.Value)
	if err != nil {
		switch {
		case errors.Is(err, intent.ErrIntensityOutOfRange), errors.Is(err, device.ErrValueOutOfRange):
			writeBadRequest(w, "intensity must lie in [0,255]")
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found: "+id)
		default:
			writeInternalError(w, "intensity update failed")
		}
		return
	}

	s.broadcastDeviceState(d)
	writeJSON(w, http.StatusOK, toDeviceJSON(d))
}

// climateRequest is the body for PUT /climate/target.
type climateRequest struct {
	Value *float64 `json:"value"`
}

// handleSetClimateTarget sets the target temperature on all air conditioners.
func (s *Server) handleSetClimateTarget(w http.ResponseWriter, r *http.Request) {
	var req climateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeBadRequest(w, "body must be {\"value\": <temperature>}")
		return
	}

	count, err := s.intents.SetTemperatureTarget(*req.Value)
	if err != nil {
		if errors.Is(err, intent.ErrNoSuchKindDevice) {
			writeNotFound(w, "no air conditioner registered")
			return
		}
		writeInternalError(w, "climate update failed")
		return
	}

	for _, d := range s.registry.ListByKind(device.KindAC) {
		s.broadcastDeviceState(&d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": count})
}

// broadcastDeviceState pushes one device's new state to WebSocket clients.
func (s *Server) broadcastDeviceState(d *device.Device) {
	s.hub.Broadcast(ChannelDeviceState, toDeviceJSON(d))
}

package api

import (
	"net/http"
	"time"
)

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleStatus returns the cloud connection status, broker identity and
// basic counters.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cloud":      string(s.notifier.Current()),
		"identity":   s.cloudCfg.Auth.Username,
		"region":     s.cloudCfg.Region,
		"devices":    s.registry.Count(),
		"ws_clients": s.hub.ClientCount(),
	})
}

// handleEnvironment returns the ambient home readings.
func (s *Server) handleEnvironment(w http.ResponseWriter, _ *http.Request) {
	env := s.registry.Environment()
	writeJSON(w, http.StatusOK, map[string]any{
		"temperature": env.Temperature,
		"humidity":    env.Humidity,
		"air_quality": env.AirQuality,
	})
}

// activityEntryJSON is the wire form of one activity feed entry.
type activityEntryJSON struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// handleActivity returns the activity feed, newest first.
func (s *Server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	entries := s.activity.Entries()
	out := make([]activityEntryJSON, len(entries))
	for i, e := range entries {
		out[i] = activityEntryJSON{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Message:   e.Message,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lumina-home/lumina-core/internal/assistant"
)

// chatRequest is the body for POST /assistant/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// chatActionJSON is the wire form of one executed assistant action.
type chatActionJSON struct {
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
}

// chatResponse is the reply for POST /assistant/chat.
type chatResponse struct {
	Reply   string           `json:"reply"`
	Actions []chatActionJSON `json:"actions,omitempty"`
}

// handleAssistantChat runs one assistant turn. Devices the model controlled
// are broadcast to WebSocket clients before the reply returns, so the
// dashboard updates alongside the chat bubble.
func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeUnavailable(w, "assistant is not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeBadRequest(w, "body must be {\"message\": \"...\"}")
		return
	}

	reply, err := s.assistant.Chat(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			writeBadRequest(w, "message must not be empty")
			return
		}
		writeInternalError(w, "assistant turn failed")
		return
	}

	resp := chatResponse{Reply: reply.Text}
	for _, a := range reply.Actions {
		resp.Actions = append(resp.Actions, chatActionJSON{DeviceID: a.DeviceID, Action: a.Action})
		if d, err := s.registry.Get(a.DeviceID); err == nil {
			s.broadcastDeviceState(d)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

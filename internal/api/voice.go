package api

import (
	"errors"
	"net/http"

	"github.com/lumina-home/lumina-core/internal/voice"
)

// voiceResponse is the reply for POST /voice/listen.
type voiceResponse struct {
	Transcript string           `json:"transcript"`
	Reply      string           `json:"reply,omitempty"`
	Actions    []chatActionJSON `json:"actions,omitempty"`
}

// handleVoiceListen records one spoken command, transcribes it and routes
// the transcript through the assistant like a typed message.
func (s *Server) handleVoiceListen(w http.ResponseWriter, r *http.Request) {
	if s.voice == nil || !s.voice.Available() {
		writeUnavailable(w, "voice capture is not available in this build")
		return
	}

	transcript, err := s.voice.Listen(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, voice.ErrCaptureUnavailable), errors.Is(err, voice.ErrTranscriptionUnavailable):
			writeUnavailable(w, "voice capture is not available")
		case errors.Is(err, voice.ErrEmptyTranscript):
			writeBadRequest(w, "no speech detected")
		default:
			writeInternalError(w, "voice capture failed")
		}
		return
	}

	resp := voiceResponse{Transcript: transcript}

	// Without an assistant the transcript is still useful to the UI.
	if s.assistant != nil {
		reply, err := s.assistant.Chat(r.Context(), transcript)
		if err == nil {
			resp.Reply = reply.Text
			for _, a := range reply.Actions {
				resp.Actions = append(resp.Actions, chatActionJSON{DeviceID: a.DeviceID, Action: a.Action})
				if d, err := s.registry.Get(a.DeviceID); err == nil {
					s.broadcastDeviceState(d)
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
)

type SpeechHandler struct {
	registry   *tts.Registry
	dispatcher *tts.Dispatcher
}

func NewSpeechHandler(reg *tts.Registry, disp *tts.Dispatcher) *SpeechHandler {
	return &SpeechHandler{registry: reg, dispatcher: disp}
}

// Voices lists the names the client can pick from, plus the engine a
// voiceless request would be routed to.
func (h *SpeechHandler) Voices(w http.ResponseWriter, r *http.Request) {
	catalog := h.registry.ResolveVoices(r.Context())

	engine := h.registry.Fallback().Name()
	if p, _, ok := h.registry.Primary(); ok && !catalog.Empty() {
		engine = p.Name()
	}

	voices := catalog.Names
	if voices == nil {
		voices = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"engine":        engine,
		"voices":        voices,
		"default_voice": h.registry.DefaultVoice(),
	})
}

// Speak converts text to audio and streams it back as one body.
func (h *SpeechHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req tts.SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}

	outcome, ok := h.dispatcher.Speak(r.Context(), req)
	if !ok {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "speech could not be produced"})
		return
	}

	w.Header().Set("Content-Type", outcome.ContentType)
	w.Header().Set("X-Speech-Engine", outcome.Engine)
	w.WriteHeader(http.StatusOK)
	w.Write(outcome.Audio)
}

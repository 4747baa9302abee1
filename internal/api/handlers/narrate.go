package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/MuhammadNizamani/imagetostorey/internal/config"
	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
)

type NarrateHandler struct {
	generator  *story.Generator
	dispatcher *tts.Dispatcher
	upload     config.UploadConfig
}

func NewNarrateHandler(gen *story.Generator, disp *tts.Dispatcher, upload config.UploadConfig) *NarrateHandler {
	return &NarrateHandler{generator: gen, dispatcher: disp, upload: upload}
}

type narrateResponse struct {
	ID        string `json:"id"`
	Story     string `json:"story"`
	Engine    string `json:"engine,omitempty"`
	AudioB64  string `json:"audio_b64"`
	AudioType string `json:"audio_type,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// Narrate runs the full pipeline: image to story to audio. A failed story
// is a gateway error and nothing is synthesized; a failed synthesis still
// returns the story, with a warning instead of audio.
func (h *NarrateHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	img, ok := readImageForm(w, r, h.upload)
	if !ok {
		return
	}

	prompt, ok := readPrompt(w, r)
	if !ok {
		return
	}

	tone, ok := readTone(w, r)
	if !ok {
		return
	}

	text := h.generator.Tell(r.Context(), *img, prompt)
	if story.IsSentinel(text) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": text})
		return
	}

	resp := narrateResponse{ID: uuid.NewString(), Story: text}

	outcome, ok := h.dispatcher.Speak(r.Context(), tts.SynthesisRequest{
		Text:  text,
		Voice: r.FormValue("voice"),
		Tone:  tone,
	})
	if ok {
		resp.Engine = outcome.Engine
		resp.AudioB64 = base64.StdEncoding.EncodeToString(outcome.Audio)
		resp.AudioType = outcome.ContentType
	} else {
		resp.Warning = "no audio could be produced"
	}

	writeJSON(w, http.StatusOK, resp)
}

// readTone parses the optional stability and clarity form fields. Both
// default when only one is present; neither present means no tone override.
func readTone(w http.ResponseWriter, r *http.Request) (*tts.ToneSettings, bool) {
	sRaw := r.FormValue("stability")
	cRaw := r.FormValue("clarity")
	if sRaw == "" && cRaw == "" {
		return nil, true
	}

	tone := &tts.ToneSettings{Stability: 0.5, Clarity: 0.75}
	if sRaw != "" {
		s, err := strconv.ParseFloat(sRaw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid stability value"})
			return nil, false
		}
		tone.Stability = s
	}
	if cRaw != "" {
		c, err := strconv.ParseFloat(cRaw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid clarity value"})
			return nil, false
		}
		tone.Clarity = c
	}
	return tone, true
}

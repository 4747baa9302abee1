package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MuhammadNizamani/imagetostorey/internal/config"
	"github.com/MuhammadNizamani/imagetostorey/internal/story"
)

type StoryHandler struct {
	generator *story.Generator
	upload    config.UploadConfig
}

func NewStoryHandler(gen *story.Generator, upload config.UploadConfig) *StoryHandler {
	return &StoryHandler{generator: gen, upload: upload}
}

// Tell generates a story for the uploaded image. A generation failure is
// reported as a gateway error carrying the diagnostic text.
func (h *StoryHandler) Tell(w http.ResponseWriter, r *http.Request) {
	img, ok := readImageForm(w, r, h.upload)
	if !ok {
		return
	}

	prompt, ok := readPrompt(w, r)
	if !ok {
		return
	}

	text := h.generator.Tell(r.Context(), *img, prompt)
	if story.IsSentinel(text) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": text})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": uuid.NewString(), "story": text})
}

// readPrompt rejects a missing or blank prompt. The browser page seeds the
// prompt field, so an empty value means the user cleared it.
func readPrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt required"})
		return "", false
	}
	return prompt, true
}

// readImageForm parses the multipart upload shared by the story and narrate
// endpoints and normalizes the image. It writes the error response itself
// and reports ok=false. Temp files spooled by the parse are removed before
// returning; text fields stay readable through r.FormValue.
func readImageForm(w http.ResponseWriter, r *http.Request, upload config.UploadConfig) (*story.ImagePayload, bool) {
	if r.ContentLength > upload.MaxRequestBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request too large"})
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxRequestBytes)

	if err := r.ParseMultipartForm(upload.MaxRequestBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image required"})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read image"})
		return nil, false
	}

	img, err := story.NormalizeImage(data, upload.MaxImageSide, upload.MaxImageBytes)
	if err != nil {
		if errors.Is(err, story.ErrUnsupportedImage) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported image type"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	return img, true
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/MuhammadNizamani/imagetostorey/internal/profile"
	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/web"
)

type PagesHandler struct {
	renderer *web.Renderer
	profile  *profile.Profile
}

func NewPagesHandler(renderer *web.Renderer, p *profile.Profile) *PagesHandler {
	return &PagesHandler{renderer: renderer, profile: p}
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ DefaultPrompt string }{DefaultPrompt: story.DefaultPrompt}
	if err := h.renderer.Render(w, "index.html", data); err != nil {
		slog.Error("rendering home page", "error", err)
	}
}

func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, "about.html", h.profile); err != nil {
		slog.Error("rendering about page", "error", err)
	}
}

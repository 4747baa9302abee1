package handlers

import (
	"net/http"

	"github.com/MuhammadNizamani/imagetostorey/internal/profile"
)

type ProfileHandler struct {
	profile *profile.Profile
}

func NewProfileHandler(p *profile.Profile) *ProfileHandler {
	return &ProfileHandler{profile: p}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.profile)
}

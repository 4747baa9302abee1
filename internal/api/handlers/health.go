package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
)

type HealthHandler struct {
	generator *story.Generator
	registry  *tts.Registry
}

func NewHealthHandler(gen *story.Generator, reg *tts.Registry) *HealthHandler {
	return &HealthHandler{generator: gen, registry: reg}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports per-backend state. Backends degrade instead of failing,
// so a missing credential shows up in the checks but never flips readiness.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.generator.Configured() {
		checks["narrative"] = "ok"
	} else {
		checks["narrative"] = "degraded: not configured"
	}

	if h.registry.PrimaryConfigured() {
		checks["speech_primary"] = "ok"
	} else {
		checks["speech_primary"] = "degraded: not configured"
	}
	checks["speech_fallback"] = "ok"

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": statusStr(http.StatusOK), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

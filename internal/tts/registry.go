package tts

import (
	"context"
	"log/slog"
)

// Registry tracks which synthesis backends are usable. The primary backend
// needs a credential and a successful catalog probe; the fallback needs
// nothing and is always configured. A failed probe degrades the primary to
// unconfigured with a diagnostic, never a startup failure.
type Registry struct {
	primary      *ElevenLabs
	fallback     *GoogleTranslate
	catalog      Catalog // captured by the startup probe
	defaultVoice string
}

// RegistryConfig wires both backends.
type RegistryConfig struct {
	ElevenLabs   ElevenLabsConfig
	Fallback     GoogleTranslateConfig
	DefaultVoice string // offered when a later catalog fetch fails; default "Rachel"
}

// NewRegistry probes the primary backend and wires the fallback.
func NewRegistry(ctx context.Context, cfg RegistryConfig) *Registry {
	r := &Registry{
		fallback:     NewGoogleTranslate(cfg.Fallback),
		defaultVoice: cfg.DefaultVoice,
	}
	if r.defaultVoice == "" {
		r.defaultVoice = "Rachel"
	}

	if cfg.ElevenLabs.APIKey == "" {
		slog.Info("primary speech backend not configured, fallback only", "reason", "missing api key")
		return r
	}

	client := NewElevenLabs(cfg.ElevenLabs)
	voices, err := client.ListVoices(ctx)
	if err != nil {
		slog.Warn("primary speech backend probe failed, fallback only", "error", err)
		return r
	}

	r.primary = client
	r.catalog = newCatalog(voices)
	slog.Info("primary speech backend configured", "voices", len(r.catalog.Names))
	return r
}

// Primary returns the probed primary backend and its startup catalog.
// ok is false when the backend never configured.
func (r *Registry) Primary() (*ElevenLabs, Catalog, bool) {
	if r.primary == nil {
		return nil, Catalog{}, false
	}
	return r.primary, r.catalog, true
}

// Fallback returns the always-configured fallback backend.
func (r *Registry) Fallback() Provider { return r.fallback }

func (r *Registry) PrimaryConfigured() bool { return r.primary != nil }

// DefaultVoice is the hardcoded name offered when voice listing fails.
func (r *Registry) DefaultVoice() string { return r.defaultVoice }

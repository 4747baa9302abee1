package tts

import (
	"context"
	"log/slog"
	"strings"
)

// Dispatcher routes synthesis to the primary backend when it is configured
// and a voice can be named, and to the fallback otherwise. Backend errors
// never propagate to callers: they are logged and reported as no-result.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(r *Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Outcome is a produced audio buffer plus the engine that made it.
type Outcome struct {
	Audio       []byte
	ContentType string
	Engine      string
}

// Speak synthesizes text. ok is false when no audio could be produced;
// the reasons are logged, not returned. Blank text is a no-result on every
// path, and tone settings only travel with the primary backend.
func (d *Dispatcher) Speak(ctx context.Context, req SynthesisRequest) (*Outcome, bool) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, false
	}

	if p, catalog, ok := d.registry.Primary(); ok {
		voice := req.Voice
		if voice == "" && !catalog.Empty() {
			voice = catalog.Names[0]
		}
		if voice != "" {
			result, err := p.Synthesize(ctx, SynthesisRequest{
				Text:  req.Text,
				Voice: catalog.VoiceID(voice),
				Tone:  req.Tone,
			})
			if err != nil {
				slog.Warn("primary synthesis failed", "engine", p.Name(), "voice", voice, "error", err)
				return nil, false
			}
			return &Outcome{Audio: result.Audio, ContentType: result.ContentType, Engine: p.Name()}, true
		}
		slog.Info("no voice available on primary backend, using fallback")
	}

	result, err := d.registry.Fallback().Synthesize(ctx, SynthesisRequest{Text: req.Text})
	if err != nil {
		slog.Warn("fallback synthesis failed", "error", err)
		return nil, false
	}
	return &Outcome{Audio: result.Audio, ContentType: result.ContentType, Engine: d.registry.Fallback().Name()}, true
}

package tts

import "context"

// ToneSettings shapes delivery on backends that support it. Stability
// steadies the voice, Clarity boosts similarity to the reference speaker.
// Both are clamped to [0, 1] before they reach the wire.
type ToneSettings struct {
	Stability float64 `json:"stability"`
	Clarity   float64 `json:"clarity"`
}

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Text  string        `json:"text"`
	Voice string        `json:"voice,omitempty"`
	Tone  *ToneSettings `json:"settings,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string // "audio/mpeg" for both current backends
}

// Provider is the interface for speech synthesis backends.
type Provider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

// Voice is one entry of a backend's voice catalog.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package story

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Sentinel failure strings returned in place of a narrative. Callers must
// treat any of these as "no story" and never hand them to speech synthesis.
const (
	sentinelUnavailable = "Story generation unavailable due to API configuration issues."
	sentinelMalformed   = "Could not generate a story from the image. The response was empty or malformed."
	sentinelCallError   = "An error occurred during story generation: "
)

// DefaultPrompt seeds the prompt box on the main page.
const DefaultPrompt = "Tell a short, imaginative story based on this image."

// Generator produces a short narrative for an image and a prompt. Its output
// is always renderable text: failures surface as fixed sentinel strings, not
// errors.
type Generator struct {
	client *Gemini
}

// NewGenerator wires the narrative backend. A missing API key leaves the
// generator unconfigured; it then answers every request with the
// configuration sentinel instead of failing startup.
func NewGenerator(cfg GeminiConfig) *Generator {
	if cfg.APIKey == "" {
		slog.Warn("narrative backend not configured", "reason", "missing api key")
		return &Generator{}
	}
	return &Generator{client: NewGemini(cfg)}
}

func (g *Generator) Configured() bool { return g.client != nil }

// Tell returns the narrative for the image, or a sentinel failure string.
func (g *Generator) Tell(ctx context.Context, img ImagePayload, prompt string) string {
	if g.client == nil {
		return sentinelUnavailable
	}

	text, err := g.client.GenerateContent(ctx, img, prompt)
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			slog.Warn("narrative response empty or malformed")
			return sentinelMalformed
		}
		slog.Error("narrative generation failed", "error", err)
		return sentinelCallError + err.Error()
	}
	return text
}

// IsSentinel reports whether s is one of the fixed failure strings rather
// than generated narrative.
func IsSentinel(s string) bool {
	return s == sentinelUnavailable ||
		s == sentinelMalformed ||
		strings.HasPrefix(s, sentinelCallError)
}

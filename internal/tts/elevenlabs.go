package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ElevenLabsConfig holds configuration for the ElevenLabs backend.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.elevenlabs.io"
	Model   string // default: "eleven_multilingual_v2"
	Timeout time.Duration
}

// ElevenLabs synthesizes speech using the ElevenLabs API.
type ElevenLabs struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
}

// NewElevenLabs creates an ElevenLabs client with sensible defaults applied.
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.Model == "" {
		cfg.Model = "eleven_multilingual_v2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &ElevenLabs{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

// ListVoices fetches the voice catalog. The endpoint has answered in three
// shapes across API revisions; all of them normalize to []Voice here, and an
// unrecognized shape yields an empty catalog with a warning rather than an
// error.
func (e *ElevenLabs) ListVoices(ctx context.Context) ([]Voice, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", e.cfg.BaseURL+"/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list voices failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read voices response: %w", err)
	}

	return decodeVoiceCatalog(body)
}

// decodeVoiceCatalog normalizes the three wire shapes the voices endpoint
// has used: {"voices": [...]}, a legacy ["voices", [...]] pair, and a bare
// array of records. Records without a display name are skipped with a
// warning; a shape that matches none of the three yields an empty catalog.
func decodeVoiceCatalog(body []byte) ([]Voice, error) {
	var root json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decode voices response: %w", err)
	}

	records, ok := catalogRecords(root)
	if !ok {
		slog.Warn("unrecognized voice catalog shape", "body", truncate(string(body), 200))
		return nil, nil
	}

	voices := make([]Voice, 0, len(records))
	for i, raw := range records {
		var rec struct {
			VoiceID string `json:"voice_id"`
			Name    string `json:"name"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil || rec.Name == "" {
			slog.Warn("skipping voice record without a name", "index", i)
			continue
		}
		voices = append(voices, Voice{ID: rec.VoiceID, Name: rec.Name})
	}
	return voices, nil
}

func catalogRecords(root json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(root)
	if len(trimmed) == 0 {
		return nil, false
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			Voices []json.RawMessage `json:"voices"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil || obj.Voices == nil {
			return nil, false
		}
		return obj.Voices, true
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, false
		}
		// A ["voices", [...]] pair is distinguishable from two records
		// because records are objects, not strings.
		if len(arr) == 2 {
			var label string
			var inner []json.RawMessage
			if json.Unmarshal(arr[0], &label) == nil && json.Unmarshal(arr[1], &inner) == nil {
				return inner, true
			}
		}
		return arr, true
	}
	return nil, false
}

// Synthesize converts text to audio with a specific voice. The response
// arrives as a chunked MP3 stream; the chunks are concatenated into one
// buffer.
func (e *ElevenLabs) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if req.Voice == "" {
		return nil, fmt.Errorf("voice required")
	}

	body := map[string]any{
		"text":     req.Text,
		"model_id": e.cfg.Model,
	}
	if req.Tone != nil {
		body["voice_settings"] = map[string]float64{
			"stability":        clamp01(req.Tone.Stability),
			"similarity_boost": clamp01(req.Tone.Clarity),
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream?output_format=mp3_44100_128",
		e.cfg.BaseURL, url.PathEscape(req.Voice))
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("synthesis failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio stream")
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: "audio/mpeg",
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

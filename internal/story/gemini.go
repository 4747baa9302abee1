package story

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GeminiConfig holds configuration for the hosted narrative model.
type GeminiConfig struct {
	APIKey  string
	BaseURL string // default: "https://generativelanguage.googleapis.com/v1beta"
	Model   string // default: "gemini-1.5-flash-latest"
	Timeout time.Duration
}

// Gemini calls the generateContent endpoint with one image and one prompt.
type Gemini struct {
	cfg        GeminiConfig
	httpClient *http.Client
}

// ErrEmptyResponse marks a reply that carried no candidates or parts.
var ErrEmptyResponse = errors.New("empty or malformed model response")

// NewGemini creates a Gemini client with sensible defaults applied.
func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash-latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Gemini{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the image and prompt and returns the first text
// part of the first candidate. A reply without candidates or parts returns
// ErrEmptyResponse.
func (g *Gemini) GenerateContent(ctx context.Context, img ImagePayload, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &inlineData{
					MimeType: img.MIME,
					Data:     base64.StdEncoding.EncodeToString(img.Data),
				}},
				{Text: "\n\n" + prompt},
			},
		}},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.cfg.BaseURL, g.cfg.Model, url.QueryEscape(g.cfg.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

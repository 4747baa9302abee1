package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MuhammadNizamani/imagetostorey/pkg/segment"
)

// GoogleTranslateConfig holds configuration for the unauthenticated
// Translate TTS fallback.
type GoogleTranslateConfig struct {
	BaseURL      string // default: "https://translate.google.com"
	Language     string // default: "en"
	Slow         bool
	SegmentLimit int // max runes per request; default 200
	Timeout      time.Duration
}

// GoogleTranslate synthesizes speech through the public Translate TTS
// endpoint. It needs no credentials, which is what makes it the
// always-available fallback backend.
type GoogleTranslate struct {
	cfg        GoogleTranslateConfig
	httpClient *http.Client
}

// NewGoogleTranslate creates a client with sensible defaults applied.
func NewGoogleTranslate(cfg GoogleTranslateConfig) *GoogleTranslate {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://translate.google.com"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.SegmentLimit <= 0 {
		cfg.SegmentLimit = 200
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &GoogleTranslate{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (g *GoogleTranslate) Name() string { return "gtranslate" }

// Synthesize converts text to a single MP3 buffer. The endpoint caps input
// length per request, so long text is segmented and the per-segment MP3
// responses are concatenated in order. Voice and tone settings are ignored:
// this backend has neither.
func (g *GoogleTranslate) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	segments := segment.Split(req.Text, g.cfg.SegmentLimit)
	if len(segments) == 0 {
		return nil, fmt.Errorf("no synthesizable text")
	}

	var audio bytes.Buffer
	for i, seg := range segments {
		part, err := g.fetchSegment(ctx, seg, i, len(segments))
		if err != nil {
			return nil, err
		}
		audio.Write(part)
	}

	return &SynthesisResult{
		Audio:       audio.Bytes(),
		ContentType: "audio/mpeg",
	}, nil
}

func (g *GoogleTranslate) fetchSegment(ctx context.Context, text string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.cfg.Language)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(text))))
	q.Set("q", text)
	if g.cfg.Slow {
		q.Set("ttsspeed", "0.3")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", g.cfg.BaseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// The endpoint rejects clients without a browser user agent.
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio segment %d", idx)
	}
	return data, nil
}

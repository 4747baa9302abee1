package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MuhammadNizamani/imagetostorey/internal/config"
	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
)

const storyReply = `{"candidates":[{"content":{"parts":[{"text":"Once upon a time."}]}}]}`

const testCatalog = `{"voices":[{"voice_id":"r1","name":"Rachel"},{"voice_id":"a1","name":"Adam"}]}`

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{MaxRequestBytes: 10 << 20, MaxImageSide: 1568, MaxImageBytes: 4 << 20}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST with the given text fields and, when
// imageData is non-nil, an image file part.
func multipartRequest(t *testing.T, fields map[string]string, imageData []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if imageData != nil {
		fw, err := mw.CreateFormFile("image", "upload.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// storyStub fakes the narrative model API.
type storyStub struct {
	srv      *httptest.Server
	calls    atomic.Int64
	lastBody atomic.Value
}

func newStoryStub(t *testing.T, status int, body string) *storyStub {
	t.Helper()
	s := &storyStub{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		data, _ := io.ReadAll(r.Body)
		s.lastBody.Store(data)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

// speechStub fakes the primary speech API: it serves the voice catalog and
// counts synthesis calls, optionally failing them.
type speechStub struct {
	srv        *httptest.Server
	synthCalls atomic.Int64
	synthBody  atomic.Value
	failSynth  atomic.Bool
}

func newSpeechStub(t *testing.T) *speechStub {
	t.Helper()
	s := &speechStub{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/voices" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(testCatalog))
			return
		}
		s.synthCalls.Add(1)
		data, _ := io.ReadAll(r.Body)
		s.synthBody.Store(data)
		if s.failSynth.Load() {
			http.Error(w, "synthesis exploded", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3primary-audio"))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

// fallbackStub fakes the fallback speech endpoint.
type fallbackStub struct {
	srv   *httptest.Server
	calls atomic.Int64
	fail  atomic.Bool
}

func newFallbackStub(t *testing.T) *fallbackStub {
	t.Helper()
	f := &fallbackStub{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if f.fail.Load() {
			http.Error(w, "fallback exploded", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fallback-audio"))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

// newTestRegistry probes a registry against stub URLs. An empty primaryURL
// leaves the primary backend unconfigured.
func newTestRegistry(t *testing.T, primaryURL, fallbackURL string) *tts.Registry {
	t.Helper()
	cfg := tts.RegistryConfig{
		Fallback: tts.GoogleTranslateConfig{BaseURL: fallbackURL},
	}
	if primaryURL != "" {
		cfg.ElevenLabs = tts.ElevenLabsConfig{APIKey: "test-key", BaseURL: primaryURL}
	}
	return tts.NewRegistry(context.Background(), cfg)
}

// newTestGenerator builds a generator against a stub URL; an empty URL
// leaves it unconfigured.
func newTestGenerator(url string) *story.Generator {
	if url == "" {
		return story.NewGenerator(story.GeminiConfig{})
	}
	return story.NewGenerator(story.GeminiConfig{APIKey: "test-key", BaseURL: url})
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func isMP3(data []byte) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

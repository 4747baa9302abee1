package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
)

type narrateBody struct {
	ID        string `json:"id"`
	Story     string `json:"story"`
	Engine    string `json:"engine"`
	AudioB64  string `json:"audio_b64"`
	AudioType string `json:"audio_type"`
	Warning   string `json:"warning"`
}

func TestNarrate_StoryAndAudio(t *testing.T) {
	gemini := newStoryStub(t, http.StatusOK, storyReply)
	speech := newSpeechStub(t)
	fallback := newFallbackStub(t)
	reg := newTestRegistry(t, speech.srv.URL, fallback.srv.URL)
	h := NewNarrateHandler(newTestGenerator(gemini.srv.URL), tts.NewDispatcher(reg), testUploadConfig())

	rec := httptest.NewRecorder()
	h.Narrate(rec, multipartRequest(t, map[string]string{"prompt": "a tale", "voice": "Rachel"}, pngBytes(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body narrateBody
	decodeJSON(t, rec, &body)
	if body.ID == "" {
		t.Error("expected a non-empty id")
	}
	if body.Story != "Once upon a time." {
		t.Errorf("unexpected story: %q", body.Story)
	}
	if body.Engine != "elevenlabs" {
		t.Errorf("expected elevenlabs engine, got %q", body.Engine)
	}
	if body.Warning != "" {
		t.Errorf("expected no warning, got %q", body.Warning)
	}
	audio, err := base64.StdEncoding.DecodeString(body.AudioB64)
	if err != nil {
		t.Fatalf("audio is not valid base64: %v", err)
	}
	if !isMP3(audio) {
		t.Error("expected MP3 audio")
	}
	if fallback.calls.Load() != 0 {
		t.Error("expected the fallback to stay idle")
	}
}

func TestNarrate_FallbackWhenPrimaryUnconfigured(t *testing.T) {
	gemini := newStoryStub(t, http.StatusOK, storyReply)
	fallback := newFallbackStub(t)
	reg := newTestRegistry(t, "", fallback.srv.URL)
	h := NewNarrateHandler(newTestGenerator(gemini.srv.URL), tts.NewDispatcher(reg), testUploadConfig())

	rec := httptest.NewRecorder()
	h.Narrate(rec, multipartRequest(t, map[string]string{"prompt": "a tale"}, pngBytes(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body narrateBody
	decodeJSON(t, rec, &body)
	if body.Engine != "gtranslate" {
		t.Errorf("expected gtranslate engine, got %q", body.Engine)
	}
	if body.AudioB64 == "" {
		t.Error("expected fallback audio")
	}
	if fallback.calls.Load() == 0 {
		t.Error("expected the fallback to be called")
	}
}

func TestNarrate_StoryFailureNeverSynthesizes(t *testing.T) {
	gemini := newStoryStub(t, http.StatusInternalServerError, "model exploded")
	speech := newSpeechStub(t)
	fallback := newFallbackStub(t)
	reg := newTestRegistry(t, speech.srv.URL, fallback.srv.URL)
	h := NewNarrateHandler(newTestGenerator(gemini.srv.URL), tts.NewDispatcher(reg), testUploadConfig())

	rec := httptest.NewRecorder()
	h.Narrate(rec, multipartRequest(t, map[string]string{"prompt": "a tale", "voice": "Rachel"}, pngBytes(t)))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if !story.IsSentinel(body["error"]) {
		t.Errorf("expected a diagnostic story error, got %q", body["error"])
	}
	if speech.synthCalls.Load() != 0 {
		t.Error("expected no primary synthesis after a failed story")
	}
	if fallback.calls.Load() != 0 {
		t.Error("expected no fallback synthesis after a failed story")
	}
}

func TestNarrate_SynthesisFailureStillReturnsStory(t *testing.T) {
	gemini := newStoryStub(t, http.StatusOK, storyReply)
	speech := newSpeechStub(t)
	speech.failSynth.Store(true)
	fallback := newFallbackStub(t)
	reg := newTestRegistry(t, speech.srv.URL, fallback.srv.URL)
	h := NewNarrateHandler(newTestGenerator(gemini.srv.URL), tts.NewDispatcher(reg), testUploadConfig())

	rec := httptest.NewRecorder()
	h.Narrate(rec, multipartRequest(t, map[string]string{"prompt": "a tale", "voice": "Rachel"}, pngBytes(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a warning, got %d", rec.Code)
	}
	var body narrateBody
	decodeJSON(t, rec, &body)
	if body.Story != "Once upon a time." {
		t.Errorf("expected the story to survive, got %q", body.Story)
	}
	if body.AudioB64 != "" {
		t.Error("expected no audio after a synthesis failure")
	}
	if body.Warning == "" {
		t.Error("expected a warning about the missing audio")
	}
}

func TestNarrate_ToneForwarded(t *testing.T) {
	gemini := newStoryStub(t, http.StatusOK, storyReply)
	speech := newSpeechStub(t)
	fallback := newFallbackStub(t)
	reg := newTestRegistry(t, speech.srv.URL, fallback.srv.URL)
	h := NewNarrateHandler(newTestGenerator(gemini.srv.URL), tts.NewDispatcher(reg), testUploadConfig())

	fields := map[string]string{"prompt": "a tale", "voice": "Rachel", "stability": "0.9", "clarity": "0.2"}
	rec := httptest.NewRecorder()
	h.Narrate(rec, multipartRequest(t, fields, pngBytes(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sent, _ := speech.synthBody.Load().([]byte)
	if !strings.Contains(string(sent), `"stability":0.9`) {
		t.Errorf("expected stability in the synthesis request, got %s", sent)
	}
	if !strings.Contains(string(sent), `"similarity_boost":0.2`) {
		t.Errorf("expected similarity_boost in the synthesis request, got %s", sent)
	}
}

func TestNarrate_BadToneValueIsClientError(t *testing.T) {
	gemini := newStoryStub(t, http.StatusOK, storyReply)
	h := NewNarrateHandler(newTestGenerator(gemini.srv.URL), nil, testUploadConfig())

	fields := map[string]string{"prompt": "a tale", "stability": "not a number"}
	rec := httptest.NewRecorder()
	h.Narrate(rec, multipartRequest(t, fields, pngBytes(t)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if gemini.calls.Load() != 0 {
		t.Error("expected no story generation for a bad tone value")
	}
}

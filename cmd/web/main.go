package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhammadNizamani/imagetostorey/internal/api"
	"github.com/MuhammadNizamani/imagetostorey/internal/config"
	"github.com/MuhammadNizamani/imagetostorey/internal/profile"
	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
	"github.com/MuhammadNizamani/imagetostorey/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Narrative backend (optional, degrades to a diagnostic story when
	// GEMINI_API_KEY is missing)
	generator := story.NewGenerator(story.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	})

	// Speech backends (primary optional, fallback always available)
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 15*time.Second)
	registry := tts.NewRegistry(probeCtx, tts.RegistryConfig{
		ElevenLabs: tts.ElevenLabsConfig{
			APIKey:  cfg.ElevenLabs.APIKey,
			BaseURL: cfg.ElevenLabs.BaseURL,
			Model:   cfg.ElevenLabs.Model,
			Timeout: cfg.ElevenLabs.Timeout,
		},
		Fallback: tts.GoogleTranslateConfig{
			BaseURL:      cfg.Fallback.BaseURL,
			Language:     cfg.Fallback.Language,
			Slow:         cfg.Fallback.Slow,
			SegmentLimit: cfg.Fallback.SegmentLimit,
			Timeout:      cfg.Fallback.Timeout,
		},
		DefaultVoice: cfg.ElevenLabs.DefaultVoice,
	})
	cancelProbe()

	prof := profile.Load(cfg.Profile.Path)

	renderer, err := web.NewRenderer()
	if err != nil {
		slog.Error("failed to parse page templates", "error", err)
		os.Exit(1)
	}

	// Setup router
	router := api.NewRouter(cfg, generator, registry, prof, renderer)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting storyteller server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

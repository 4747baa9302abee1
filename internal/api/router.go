package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MuhammadNizamani/imagetostorey/internal/api/handlers"
	"github.com/MuhammadNizamani/imagetostorey/internal/api/middleware"
	"github.com/MuhammadNizamani/imagetostorey/internal/config"
	"github.com/MuhammadNizamani/imagetostorey/internal/profile"
	"github.com/MuhammadNizamani/imagetostorey/internal/story"
	"github.com/MuhammadNizamani/imagetostorey/internal/tts"
	"github.com/MuhammadNizamani/imagetostorey/internal/web"
)

type Router struct {
	mux        *chi.Mux
	cfg        *config.Config
	generator  *story.Generator
	registry   *tts.Registry
	dispatcher *tts.Dispatcher
	profile    *profile.Profile
	renderer   *web.Renderer
}

func NewRouter(cfg *config.Config, gen *story.Generator, reg *tts.Registry, prof *profile.Profile, renderer *web.Renderer) *Router {
	return &Router{
		mux:        chi.NewRouter(),
		cfg:        cfg,
		generator:  gen,
		registry:   reg,
		dispatcher: tts.NewDispatcher(reg),
		profile:    prof,
		renderer:   renderer,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	rl := middleware.NewRateLimiter(rt.cfg.Server.RateLimitRPM, rt.cfg.Server.RateLimitBurst)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.generator, rt.registry)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Browser pages
	pages := handlers.NewPagesHandler(rt.renderer, rt.profile)
	r.Get("/", pages.Home)
	r.Get("/about", pages.About)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		storyH := handlers.NewStoryHandler(rt.generator, rt.cfg.Upload)
		r.Post("/story", storyH.Tell)

		speechH := handlers.NewSpeechHandler(rt.registry, rt.dispatcher)
		r.Get("/voices", speechH.Voices)
		r.Post("/speech", speechH.Speak)

		narrateH := handlers.NewNarrateHandler(rt.generator, rt.dispatcher, rt.cfg.Upload)
		r.Post("/narrate", narrateH.Narrate)

		profileH := handlers.NewProfileHandler(rt.profile)
		r.Get("/profile", profileH.Get)
	})

	return r
}

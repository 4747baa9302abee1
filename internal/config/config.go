package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	ElevenLabs ElevenLabsConfig
	Fallback   FallbackTTSConfig
	Upload     UploadConfig
	Profile    ProfileConfig
}

type ServerConfig struct {
	Host           string   `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPM   int      `env:"RATE_LIMIT_RPM" envDefault:"120"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

type GeminiConfig struct {
	APIKey  string        `env:"GEMINI_API_KEY"`
	BaseURL string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Model   string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash-latest"`
	Timeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"60s"`
}

type ElevenLabsConfig struct {
	APIKey       string        `env:"ELEVENLABS_API_KEY"`
	BaseURL      string        `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	Model        string        `env:"ELEVENLABS_MODEL" envDefault:"eleven_multilingual_v2"`
	DefaultVoice string        `env:"ELEVENLABS_DEFAULT_VOICE" envDefault:"Rachel"`
	Timeout      time.Duration `env:"ELEVENLABS_TIMEOUT" envDefault:"120s"`
}

type FallbackTTSConfig struct {
	BaseURL      string        `env:"FALLBACK_TTS_BASE_URL" envDefault:"https://translate.google.com"`
	Language     string        `env:"FALLBACK_TTS_LANGUAGE" envDefault:"en"`
	Slow         bool          `env:"FALLBACK_TTS_SLOW" envDefault:"false"`
	SegmentLimit int           `env:"FALLBACK_TTS_SEGMENT_LIMIT" envDefault:"200"`
	Timeout      time.Duration `env:"FALLBACK_TTS_TIMEOUT" envDefault:"60s"`
}

type UploadConfig struct {
	MaxRequestBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	MaxImageSide    int   `env:"IMAGE_MAX_SIDE" envDefault:"1568"`
	MaxImageBytes   int   `env:"IMAGE_MAX_BYTES" envDefault:"4194304"`
}

type ProfileConfig struct {
	Path string `env:"PROFILE_PATH"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate rejects incoherent values. Missing API keys are not checked here:
// each backend degrades to unconfigured instead of blocking startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.Upload.MaxRequestBytes <= 0 {
		return fmt.Errorf("invalid UPLOAD_MAX_BYTES: %d", c.Upload.MaxRequestBytes)
	}
	if c.Upload.MaxImageSide <= 0 {
		return fmt.Errorf("invalid IMAGE_MAX_SIDE: %d", c.Upload.MaxImageSide)
	}
	if c.Upload.MaxImageBytes <= 0 {
		return fmt.Errorf("invalid IMAGE_MAX_BYTES: %d", c.Upload.MaxImageBytes)
	}
	if c.Fallback.SegmentLimit <= 0 {
		return fmt.Errorf("invalid FALLBACK_TTS_SEGMENT_LIMIT: %d", c.Fallback.SegmentLimit)
	}
	return nil
}

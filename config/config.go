// Package config reads process level settings from the environment.
//
// The core pipeline never touches this package. Binaries load a Settings
// once at startup and hand each provider adapter its own section; a missing
// credential is reported by the adapter at call time, not here, so that
// configured providers keep working when an unrelated one is not set up.
package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	defaultOutputDir = "out"
	defaultTimeout   = 10 * time.Minute
)

// OpenAI credentials for the images API.
type OpenAI struct {
	APIKey  string
	BaseURL string
}

// Suno credentials for the music API.
type Suno struct {
	APIKey  string
	BaseURL string
}

// Google credentials for the generative language APIs.
type Google struct {
	APIKey  string
	BaseURL string
}

// Settings collects everything the binaries read from the environment.
type Settings struct {
	OpenAI    OpenAI
	Suno      Suno
	Google    Google
	OutputDir string
	Timeout   time.Duration
}

// FromEnv builds Settings from the current process environment. Credentials
// default to empty, tunables fall back to sensible defaults.
func FromEnv() Settings {
	return Settings{
		OpenAI: OpenAI{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Suno: Suno{
			APIKey:  os.Getenv("SUNO_API_KEY"),
			BaseURL: os.Getenv("SUNO_BASE_URL"),
		},
		Google: Google{
			APIKey:  firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY"),
			BaseURL: os.Getenv("GOOGLE_BASE_URL"),
		},
		OutputDir: stringEnv("MUSE_OUTPUT_DIR", defaultOutputDir),
		Timeout:   durationEnv("MUSE_TIMEOUT", defaultTimeout),
	}
}

func stringEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
	}
	return ""
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Duration("default", fallback),
		)
		return fallback
	}
	return d
}

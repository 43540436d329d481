// ABOUTME: Environment configuration for the streaming client
// ABOUTME: Loads an optional .env file and resolves the media stream endpoint
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environments selectable through APP_ENV
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Endpoints used when MEDIA_STREAM_URL is not set
const (
	DevelopmentURL = "ws://127.0.0.1:8000/twilio/media-stream"
	ProductionURL  = "wss://callvio-backend-242251286144.asia-south1.run.app/twilio/media-stream"
)

// Output backends
const (
	BackendOto   = "oto"
	BackendMalgo = "malgo"
)

// Config holds the resolved settings
type Config struct {
	Env           string
	URL           string
	StreamSid     string
	BlockSize     int
	MaxQueued     int
	OutputBackend string
	InputBackend  string
	LogLevel      string
	LogFile       string
}

// Load reads files (default: .env) if present, then the environment. A
// missing file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables. Values are only
// parsed here; call Validate once command-line overrides are applied.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:           strings.ToLower(getenv("APP_ENV", EnvProduction)),
		URL:           os.Getenv("MEDIA_STREAM_URL"),
		StreamSid:     os.Getenv("STREAM_SID"),
		OutputBackend: strings.ToLower(getenv("AUDIO_BACKEND_OUT", BackendOto)),
		InputBackend:  strings.ToLower(getenv("AUDIO_BACKEND_IN", BackendMalgo)),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFile:       getenv("LOG_FILE", "basic-ai-call.log"),
	}

	var err error
	if cfg.BlockSize, err = getint("BLOCK_SIZE", 128); err != nil {
		return nil, err
	}
	if cfg.MaxQueued, err = getint("MAX_QUEUED", 0); err != nil {
		return nil, err
	}

	if cfg.URL == "" {
		cfg.URL = URLFor(cfg.Env)
	}
	return cfg, nil
}

// URLFor returns the default endpoint for an environment
func URLFor(env string) string {
	if env == EnvDevelopment {
		return DevelopmentURL
	}
	return ProductionURL
}

// Validate checks value ranges and backend names
func (c *Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("invalid BLOCK_SIZE: %d (must be positive)", c.BlockSize)
	}
	if c.MaxQueued < 0 {
		return fmt.Errorf("invalid MAX_QUEUED: %d (must be zero or positive)", c.MaxQueued)
	}
	switch c.OutputBackend {
	case BackendOto, BackendMalgo:
	default:
		return fmt.Errorf("invalid AUDIO_BACKEND_OUT: %s (supported: %s, %s)", c.OutputBackend, BackendOto, BackendMalgo)
	}
	switch c.InputBackend {
	case BackendMalgo, "portaudio":
	default:
		return fmt.Errorf("invalid AUDIO_BACKEND_IN: %s (supported: malgo, portaudio)", c.InputBackend)
	}
	if !strings.HasPrefix(c.URL, "ws://") && !strings.HasPrefix(c.URL, "wss://") {
		return fmt.Errorf("invalid media stream URL: %s (must be ws:// or wss://)", c.URL)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// ABOUTME: Tests for environment configuration
// ABOUTME: Covers defaults, endpoint selection, .env loading and validation
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "MEDIA_STREAM_URL", "STREAM_SID", "BLOCK_SIZE", "MAX_QUEUED",
	"AUDIO_BACKEND_OUT", "AUDIO_BACKEND_IN", "LOG_LEVEL", "LOG_FILE",
}

// clearEnv blanks every variable the package reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, ProductionURL, cfg.URL)
	assert.Equal(t, 128, cfg.BlockSize)
	assert.Zero(t, cfg.MaxQueued)
	assert.Equal(t, BackendOto, cfg.OutputBackend)
	assert.Equal(t, BackendMalgo, cfg.InputBackend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.StreamSid)
}

func TestDevelopmentEndpoint(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Development")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DevelopmentURL, cfg.URL)
}

func TestExplicitURLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("MEDIA_STREAM_URL", "ws://10.0.0.2:9000/media")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ws://10.0.0.2:9000/media", cfg.URL)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name        string
		key, value  string
		errContains string
	}{
		{"zero block size", "BLOCK_SIZE", "0", "invalid BLOCK_SIZE"},
		{"negative queue bound", "MAX_QUEUED", "-1", "invalid MAX_QUEUED"},
		{"unknown output backend", "AUDIO_BACKEND_OUT", "alsa", "invalid AUDIO_BACKEND_OUT"},
		{"unknown input backend", "AUDIO_BACKEND_IN", "pulse", "invalid AUDIO_BACKEND_IN"},
		{"http url", "MEDIA_STREAM_URL", "http://example.com", "invalid media stream URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := FromEnv()
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestNonNumericEnvIsRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOCK_SIZE", "lots")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid BLOCK_SIZE")
}

func TestOverridesReplaceInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEDIA_STREAM_URL", "http://example.com")
	t.Setenv("BLOCK_SIZE", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	cfg.URL = "ws://127.0.0.1:9000/twilio/media-stream"
	cfg.BlockSize = 160
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	for _, key := range envKeys {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_ENV=development\nMAX_QUEUED=50\nSTREAM_SID=MZfile\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DevelopmentURL, cfg.URL)
	assert.Equal(t, 50, cfg.MaxQueued)
	assert.Equal(t, "MZfile", cfg.StreamSid)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, ProductionURL, cfg.URL)
}

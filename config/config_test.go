package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EVENTLENS_INFERENCE_APIKEY", "test-key")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, int64(26214400), cfg.Server.MaxBodySize)
	assert.Equal(t, "test-key", cfg.Inference.APIKey)
	assert.Equal(t, "gemini-2.5-flash-preview-09-2025", cfg.Inference.Model)
	assert.Equal(t, 5, cfg.Inference.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Inference.BackoffBase)
	assert.Equal(t, 30*time.Second, cfg.Fetcher.LoadTimeout)
	assert.Equal(t, 2*time.Second, cfg.Fetcher.SettleWait)
	assert.Empty(t, cfg.OCR.URL)
	assert.Equal(t, "kor+eng", cfg.OCR.Languages)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("EVENTLENS_INFERENCE_APIKEY", "")

	_, err := Load(nil)

	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVENTLENS_INFERENCE_APIKEY", "test-key")
	t.Setenv("EVENTLENS_SERVER_LISTEN", ":9090")
	t.Setenv("EVENTLENS_INFERENCE_MAXATTEMPTS", "3")
	t.Setenv("EVENTLENS_INFERENCE_CALLTIMEOUT", "15s")
	t.Setenv("EVENTLENS_OCR_URL", "http://localhost:8081")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 3, cfg.Inference.MaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.Inference.CallTimeout)
	assert.Equal(t, "http://localhost:8081", cfg.OCR.URL)
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("EVENTLENS_INFERENCE_APIKEY", "test-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte("server:\n  listen: \":7070\"\ninference:\n  model: custom-model\n")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.Equal(t, "custom-model", cfg.Inference.Model)
	// untouched sections keep their defaults
	assert.Equal(t, 5, cfg.Inference.MaxAttempts)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("EVENTLENS_INFERENCE_APIKEY", "test-key")
	t.Setenv("EVENTLENS_SERVER_LISTEN", ":9999")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen: \":7070\"\n"), 0o600))

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Listen)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	t.Setenv("EVENTLENS_INFERENCE_APIKEY", "test-key")

	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
}

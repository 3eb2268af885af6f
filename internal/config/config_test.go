package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PIPELINE_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "inprocess", cfg.Pipeline.Mode)
	assert.Equal(t, "pop, upbeat", cfg.Pipeline.FallbackPrompt)
	assert.Equal(t, "hyperrealistic vibrant concert scene", cfg.Pipeline.DefaultVision)
	assert.Equal(t, 24, cfg.Pipeline.BeatCount)
	assert.Equal(t, "/static/sample_result.mp4", cfg.Pipeline.FallbackVideoURL)
	assert.False(t, cfg.R2.Configured())
}

func TestLoad_PortFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_InvalidPipelineMode(t *testing.T) {
	t.Setenv("PIPELINE_MODE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_SecretFromFile(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "grok_key")
	require.NoError(t, os.WriteFile(secret, []byte("xai-secret\n"), 0o600))

	// registering the var with t.Setenv restores it after readSecret writes it
	t.Setenv("GROK_API_KEY", "")
	t.Setenv("GROK_API_KEY_FILE", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "xai-secret", cfg.Grok.APIKey)
}

func TestLoad_DirectSecretWins(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "suno_key")
	require.NoError(t, os.WriteFile(secret, []byte("from-file"), 0o600))

	t.Setenv("SUNO_API_KEY", "from-env")
	t.Setenv("SUNO_API_KEY_FILE", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Suno.APIKey)
}

func TestLoad_R2SignedURLTTL(t *testing.T) {
	t.Setenv("R2_SIGNED_URL_TTL", "900")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.R2.SignedURLTTL)
}

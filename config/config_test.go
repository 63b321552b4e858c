package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SLIDER_ADDR", "SLIDER_DB", "SLIDER_SOURCE",
	"SLIDER_UNSPLASH_ACCESS_KEY", "UNSPLASH_ACCESS_KEY", "SLIDER_UNSPLASH_BASE_URL",
	"SLIDER_S3_BUCKET", "SLIDER_AWS_PROFILE", "SLIDER_LOCAL_PATH", "SLIDER_LOG_LEVEL",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("UNSPLASH_ACCESS_KEY", "from-env")

	cfg, err := Load(nil, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "data/imageslider.db", cfg.DBPath)
	assert.Equal(t, SourceUnsplash, cfg.Source)
	assert.Equal(t, "from-env", cfg.UnsplashAccessKey)
	assert.Equal(t, "https://api.unsplash.com", cfg.UnsplashBaseURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadPrefixedEnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLIDER_UNSPLASH_ACCESS_KEY", "prefixed")
	t.Setenv("SLIDER_ADDR", "127.0.0.1:9000")
	t.Setenv("SLIDER_LOG_LEVEL", "debug")

	cfg, err := Load([]string{"--addr", ":7000", "--unsplash-base-url", "http://localhost:1234/"}, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr, "flags win over env")
	assert.Equal(t, "prefixed", cfg.UnsplashAccessKey)
	assert.Equal(t, "http://localhost:1234", cfg.UnsplashBaseURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SLIDER_SOURCE=s3\nSLIDER_S3_BUCKET=family-photos\nSLIDER_AWS_PROFILE=frame\n"), 0o600))

	cfg, err := Load(nil, envFile)
	require.NoError(t, err)
	assert.Equal(t, SourceS3, cfg.Source)
	assert.Equal(t, "family-photos", cfg.S3Bucket)
	assert.Equal(t, "frame", cfg.AWSProfile)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unsplash without key", []string{"--source", "unsplash"}},
		{"s3 without bucket", []string{"--source", "s3"}},
		{"local without path", []string{"--source", "local"}},
		{"unknown source", []string{"--source", "ftp"}},
		{"bad log level", []string{"--source", "local", "--local-path", "/tmp", "--log-level", "loud"}},
		{"unknown flag", []string{"--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(tt.args, noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestLoadLocalSource(t *testing.T) {
	clearEnv(t)
	cfg, err := Load([]string{"--source", "LOCAL", "--local-path", "/srv/photos"}, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, cfg.Source)
	assert.Equal(t, "/srv/photos", cfg.LocalPath)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://intervals.icu/api/v1", cfg.Intervals.BaseURL)
	assert.Equal(t, DefaultBucketName, cfg.Hetzner.BucketName)
	assert.Equal(t, "data", cfg.Paths.DataRoot)
	assert.Equal(t, "plots", cfg.Paths.PlotRoot)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("INTERVALS_API_KEY", "key-123")
	t.Setenv("INTERVALS_ATHLETE_ID", "i4242")
	t.Setenv("HETZNER_URL", "https://fsn1.example.com")
	t.Setenv("HETZNER_ACCESS_KEY", "ak")
	t.Setenv("HETZNER_SECRET_KEY", "sk")
	t.Setenv("HETZNER_BUCKET_NAME", "other-bucket")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.Intervals.APIKey)
	assert.Equal(t, "i4242", cfg.Intervals.AthleteID)
	assert.Equal(t, "https://fsn1.example.com", cfg.Hetzner.URL)
	assert.Equal(t, "other-bucket", cfg.Hetzner.BucketName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.NoError(t, cfg.ValidateIntervals())
	assert.NoError(t, cfg.ValidateStorage())
	assert.Equal(t, "data", cfg.Paths.DataRoot)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := []byte("paths:\n  data_root: /srv/data\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.Paths.DataRoot)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.ValidateIntervals(), ErrMissingAPIKey)

	cfg.Intervals.APIKey = "k"
	assert.ErrorIs(t, cfg.ValidateIntervals(), ErrMissingAthleteID)

	assert.ErrorIs(t, cfg.ValidateStorage(), ErrMissingStorage)
	assert.ErrorIs(t, cfg.ValidateServer(), ErrMissingJWTSecret)
}

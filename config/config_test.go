package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "LANGUAGE_CODE", "POLL_INTERVAL_SECONDS", "MAX_POLLS",
		"RESULT_TIMEOUT_SECONDS", "STAGING_DIR", "FFMPEG_BIN", "DEDUP_TTL_SECONDS",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "de-DE", cfg.LanguageCode)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 240, cfg.MaxPolls)
	assert.Equal(t, 1000*time.Second, cfg.ResultTimeout)
	assert.Equal(t, "ffmpeg", cfg.FFmpegBin)
	assert.Equal(t, 600*time.Second, cfg.DedupTTL)
	assert.NotEmpty(t, cfg.StagingDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LANGUAGE_CODE", "en-US")
	t.Setenv("POLL_INTERVAL_SECONDS", "1")
	t.Setenv("MAX_POLLS", "3")
	t.Setenv("RESULT_TIMEOUT_SECONDS", "30")
	t.Setenv("STAGING_DIR", "/var/staging")
	t.Setenv("FFMPEG_BIN", "/usr/local/bin/ffmpeg")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DEDUP_TTL_SECONDS", "0")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "en-US", cfg.LanguageCode)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 3, cfg.MaxPolls)
	assert.Equal(t, 30*time.Second, cfg.ResultTimeout)
	assert.Equal(t, "/var/staging", cfg.StagingDir)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpegBin)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Duration(0), cfg.DedupTTL)
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("MAX_POLLS", "many")
	assert.Equal(t, 240, Load().MaxPolls)
}

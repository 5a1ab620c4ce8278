package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every knob the service reads from the environment. It is
// built once in main and passed down explicitly; nothing else in the tree
// touches os.Getenv for behavior.
type Config struct {
	Port string

	// Recognition.
	LanguageCode  string
	PollInterval  time.Duration
	MaxPolls      int
	ResultTimeout time.Duration

	// Local staging + transcode.
	StagingDir string
	FFmpegBin  string

	// Backing services.
	PostgresURI string
	RedisAddr   string

	// Inspection API auth.
	JWTSecret string
	JWTIssuer string

	// Duplicate-delivery guard; zero disables it.
	DedupTTL time.Duration
}

func Load() Config {
	return Config{
		Port:          envOr("PORT", "8080"),
		LanguageCode:  envOr("LANGUAGE_CODE", "de-DE"),
		PollInterval:  time.Duration(envInt("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		MaxPolls:      envInt("MAX_POLLS", 240),
		ResultTimeout: time.Duration(envInt("RESULT_TIMEOUT_SECONDS", 1000)) * time.Second,
		StagingDir:    envOr("STAGING_DIR", os.TempDir()),
		FFmpegBin:     envOr("FFMPEG_BIN", "ffmpeg"),
		PostgresURI:   os.Getenv("POSTGRES_URI"),
		RedisAddr:     firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     os.Getenv("JWT_ISSUER"),
		DedupTTL:      time.Duration(envInt("DEDUP_TTL_SECONDS", 600)) * time.Second,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

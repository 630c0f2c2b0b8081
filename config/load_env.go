package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

const (
	DEFAULT_HTTP_ADDR         = ":5000"
	DEFAULT_MAX_COMMENTS      = 100
	DEFAULT_SUMMARY_SENTENCES = 3
	DEFAULT_COMMENT_CACHE_TTL = 10 * time.Minute
)

type Config struct {
	Env               string
	HTTPAddr          string
	LogLevel          slog.Level
	YouTubeAPIKey     string
	YouTubeToken      string
	MaxComments       int
	SummarySentences  int
	IncludeZeroCounts bool
	MarkdownComments  bool
	ValkeyAddr        string
	ValkeyPassword    string
	ValkeyTLS         bool
	CommentCacheTTL   time.Duration
}

func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:            getEnv("APP_ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", DEFAULT_HTTP_ADDR),
		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
		YouTubeToken:   os.Getenv("YOUTUBE_ACCESS_TOKEN"),
		ValkeyAddr:     os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return cfg, err
	}
	if cfg.MaxComments, err = getInt("MAX_COMMENTS", DEFAULT_MAX_COMMENTS); err != nil {
		return cfg, err
	}
	if cfg.MaxComments < 1 || cfg.MaxComments > 100 {
		return cfg, fmt.Errorf("MAX_COMMENTS must be between 1 and 100, got %d", cfg.MaxComments)
	}
	if cfg.SummarySentences, err = getInt("SUMMARY_SENTENCES", DEFAULT_SUMMARY_SENTENCES); err != nil {
		return cfg, err
	}
	if cfg.SummarySentences <= 0 {
		return cfg, fmt.Errorf("SUMMARY_SENTENCES must be positive, got %d", cfg.SummarySentences)
	}
	if cfg.IncludeZeroCounts, err = getBool("INCLUDE_ZERO_COUNTS", false); err != nil {
		return cfg, err
	}
	switch format := getEnv("COMMENT_FORMAT", "plain"); format {
	case "plain":
	case "markdown":
		cfg.MarkdownComments = true
	default:
		return cfg, fmt.Errorf("COMMENT_FORMAT must be plain or markdown, got %q", format)
	}
	if cfg.CommentCacheTTL, err = getDuration("COMMENT_CACHE_TTL", DEFAULT_COMMENT_CACHE_TTL); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the application reads from the environment.
// An optional .env file in the working directory is loaded first; real
// environment variables win over it.
type Config struct {
	SettingsDir    string
	LogLevel       string
	RecomputeDelay time.Duration
	PersistDelay   time.Duration
	MaxDimension   int
	JPEGQuality    int
}

const (
	defaultLogLevel       = "info"
	defaultRecomputeDelay = 100 * time.Millisecond
	defaultPersistDelay   = 500 * time.Millisecond
	defaultMaxDimension   = 0 // unbounded
	defaultJPEGQuality    = 90
)

// Load reads configuration from the environment, after merging an optional
// .env file. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SettingsDir:    os.Getenv("ENGRAVE_SETTINGS_DIR"),
		LogLevel:       envOr("ENGRAVE_LOG_LEVEL", defaultLogLevel),
		RecomputeDelay: defaultRecomputeDelay,
		PersistDelay:   defaultPersistDelay,
		MaxDimension:   defaultMaxDimension,
		JPEGQuality:    defaultJPEGQuality,
	}

	if cfg.SettingsDir == "" {
		dir, err := defaultSettingsDir()
		if err != nil {
			return nil, err
		}
		cfg.SettingsDir = dir
	}

	var err error
	if cfg.RecomputeDelay, err = envDuration("ENGRAVE_RECOMPUTE_DELAY", cfg.RecomputeDelay); err != nil {
		return nil, err
	}
	if cfg.PersistDelay, err = envDuration("ENGRAVE_PERSIST_DELAY", cfg.PersistDelay); err != nil {
		return nil, err
	}
	if cfg.MaxDimension, err = envInt("ENGRAVE_MAX_DIMENSION", cfg.MaxDimension); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality, err = envInt("ENGRAVE_JPEG_QUALITY", cfg.JPEGQuality); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("ENGRAVE_JPEG_QUALITY must be 1..100, got %d", cfg.JPEGQuality)
	}

	return cfg, nil
}

func defaultSettingsDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(base, "engrave-prep"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
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

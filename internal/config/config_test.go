package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SettingsDir == "" {
		t.Fatal("settings dir not resolved")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.RecomputeDelay != 100*time.Millisecond || cfg.PersistDelay != 500*time.Millisecond {
		t.Fatalf("delays = %v/%v, want 100ms/500ms", cfg.RecomputeDelay, cfg.PersistDelay)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENGRAVE_SETTINGS_DIR", "/tmp/engrave-test")
	t.Setenv("ENGRAVE_LOG_LEVEL", "debug")
	t.Setenv("ENGRAVE_RECOMPUTE_DELAY", "250ms")
	t.Setenv("ENGRAVE_MAX_DIMENSION", "2048")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SettingsDir != "/tmp/engrave-test" {
		t.Fatalf("settings dir = %q", cfg.SettingsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.RecomputeDelay != 250*time.Millisecond {
		t.Fatalf("recompute delay = %v, want 250ms", cfg.RecomputeDelay)
	}
	if cfg.MaxDimension != 2048 {
		t.Fatalf("max dimension = %d, want 2048", cfg.MaxDimension)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ENGRAVE_RECOMPUTE_DELAY": "soon",
		"ENGRAVE_PERSIST_DELAY":   "-1s",
		"ENGRAVE_MAX_DIMENSION":   "wide",
		"ENGRAVE_JPEG_QUALITY":    "101",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%q accepted", key, value)
			}
		})
	}
}

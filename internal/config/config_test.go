package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.upstash.io")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Redis.Addr(); got != "cache.upstash.io:6379" {
		t.Errorf("Addr() = %q, want default port appended", got)
	}
	if cfg.Collector.TargetURLs != 5 {
		t.Errorf("TargetURLs = %d, want default 5", cfg.Collector.TargetURLs)
	}
	if cfg.Collector.QueryDelaySecs != 2 {
		t.Errorf("QueryDelaySecs = %d, want default 2", cfg.Collector.QueryDelaySecs)
	}
	if cfg.Validator.Strict {
		t.Error("Strict = true, want lenient default")
	}
}

func TestLoadPortOverride(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.upstash.io")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Redis.Addr(); got != "cache.upstash.io:6380" {
		t.Errorf("Addr() = %q, want overridden port", got)
	}
}

func TestLoadMissingCredentialsFails(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PASSWORD", "")

	if _, err := Load(""); err == nil {
		t.Fatal("Load() = nil error, want missing-credentials failure")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.upstash.io")
	t.Setenv("REDIS_PASSWORD", "secret")

	path := filepath.Join(t.TempDir(), "collector.yaml")
	configYAML := `
collector:
  target_urls: 7
  query_delay_seconds: 0
validator:
  strict: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Collector.TargetURLs != 7 {
		t.Errorf("TargetURLs = %d, want 7", cfg.Collector.TargetURLs)
	}
	if !cfg.Validator.Strict {
		t.Error("Strict = false, want file override true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsNonPositiveTarget(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.upstash.io")
	t.Setenv("REDIS_PASSWORD", "secret")

	path := filepath.Join(t.TempDir(), "collector.yaml")
	if err := os.WriteFile(path, []byte("collector:\n  target_urls: 0\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() = nil error, want validation failure")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}

	if cfg.App.Name != "phishshield" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.Server.HTTPPort != 8000 {
		t.Errorf("http port = %d, want 8000", cfg.Server.HTTPPort)
	}

	// Scoring policy defaults; changing any of these changes verdicts.
	if cfg.Scan.SuspiciousThreshold != 40 {
		t.Errorf("suspicious threshold = %d, want 40", cfg.Scan.SuspiciousThreshold)
	}
	if cfg.Scan.UnsafeThreshold != 50 {
		t.Errorf("unsafe threshold = %d, want 50", cfg.Scan.UnsafeThreshold)
	}
	if cfg.Scan.HeuristicWeight != 0.4 || cfg.Scan.MLWeight != 0.4 || cfg.Scan.ReputationWeight != 0.2 {
		t.Errorf("weights = %f/%f/%f, want 0.4/0.4/0.2",
			cfg.Scan.HeuristicWeight, cfg.Scan.MLWeight, cfg.Scan.ReputationWeight)
	}
	if cfg.Scan.SimilarityThreshold != 0.8 {
		t.Errorf("similarity threshold = %f, want 0.8", cfg.Scan.SimilarityThreshold)
	}

	if len(cfg.Scan.ProtectedDomains) == 0 || len(cfg.Scan.SuspiciousKeywords) == 0 || len(cfg.Scan.SuspiciousTLDs) == 0 {
		t.Error("default rule tables must not be empty")
	}
	if !cfg.ML.Enabled {
		t.Error("ML should be enabled by default")
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  http_port: 9999
scan:
  unsafe_threshold: 70
  protected_domains:
    - example.com
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.HTTPPort != 9999 {
		t.Errorf("http port = %d, want 9999", cfg.Server.HTTPPort)
	}
	if cfg.Scan.UnsafeThreshold != 70 {
		t.Errorf("unsafe threshold = %d, want 70", cfg.Scan.UnsafeThreshold)
	}
	if len(cfg.Scan.ProtectedDomains) != 1 || cfg.Scan.ProtectedDomains[0] != "example.com" {
		t.Errorf("protected domains = %v", cfg.Scan.ProtectedDomains)
	}

	// Unset keys keep their defaults.
	if cfg.Scan.SuspiciousThreshold != 40 {
		t.Errorf("suspicious threshold = %d, want default 40", cfg.Scan.SuspiciousThreshold)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for an explicit path that does not exist")
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: 6379}
	if cfg.Addr() != "localhost:6379" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

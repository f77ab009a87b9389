package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Archives) != 3 {
		t.Fatalf("expected 3 archives, got %d", len(cfg.Archives))
	}

	churchill := cfg.Archives[0]
	if churchill.Name != "Churchill Archives Centre" {
		t.Errorf("unexpected archive name %q", churchill.Name)
	}
	if churchill.APIKeyEnv != "CHURCHILL_API_KEY" {
		t.Errorf("unexpected api_key_env %q", churchill.APIKeyEnv)
	}
	if churchill.Collection != "CHAR" {
		t.Errorf("expected CHAR collection constraint, got %q", churchill.Collection)
	}
	if len(churchill.Queries) == 0 {
		t.Error("expected query phrasings to be populated")
	}

	if cfg.Download.MaxDocs != 5 {
		t.Errorf("expected max_docs 5, got %d", cfg.Download.MaxDocs)
	}
	if cfg.OCR.OutputDir != "ocr_results" {
		t.Errorf("expected ocr_results output dir, got %q", cfg.OCR.OutputDir)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
archives:
  - name: "Test Archive"
    base_url: "https://example.org/"
    search_endpoint: "search"
download:
  max_docs: 2
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Download.MaxDocs != 2 {
		t.Errorf("expected max_docs 2, got %d", cfg.Download.MaxDocs)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Search.WindowStart != "1946-10-01" {
		t.Errorf("expected default window start, got %q", cfg.Search.WindowStart)
	}
	if cfg.Archives[0].Limit != 20 {
		t.Errorf("expected default archive limit 20, got %d", cfg.Archives[0].Limit)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Archives) == 0 {
		t.Error("expected archives to be populated from file")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &Config{}
	if cfg.RateLimit() != time.Second {
		t.Errorf("expected 1s fallback, got %s", cfg.RateLimit())
	}
	cfg.Search.RateLimitMS = 250
	if cfg.RateLimit() != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.RateLimit())
	}
}

func TestWindow(t *testing.T) {
	cfg := &Config{}
	start, end := cfg.Window()
	if start.Year() != 1946 || start.Month() != time.October {
		t.Errorf("unexpected fallback window start: %s", start)
	}
	if end.Year() != 1946 || end.Month() != time.December || end.Day() != 5 {
		t.Errorf("unexpected fallback window end: %s", end)
	}

	cfg.Search.WindowStart = "1946-11-01"
	cfg.Search.WindowEnd = "1946-11-30"
	start, end = cfg.Window()
	if start.Month() != time.November || end.Day() != 30 {
		t.Errorf("unexpected configured window: %s .. %s", start, end)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	if cfg.GetDataDir() == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected custom data dir, got %q", cfg.GetDataDir())
	}
}

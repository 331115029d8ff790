package app

import (
	"os"
	"path/filepath"
	"testing"

	"custodyx/internal/types"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.SubscriptionTier() != types.TierFree {
		t.Fatalf("tier = %q", cfg.Tier)
	}
	if cfg.GeminiAPIKey != "" {
		t.Fatalf("unexpected api key %q", cfg.GeminiAPIKey)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	contents := "gemini_api_key: file-key\nmodel: gemini-2.5-pro\ntier: plus\nverbose: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GeminiAPIKey != "file-key" {
		t.Fatalf("api key = %q", cfg.GeminiAPIKey)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.SubscriptionTier() != types.TierPlus {
		t.Fatalf("tier = %q", cfg.Tier)
	}
	if !cfg.Verbose {
		t.Fatalf("verbose not read")
	}
}

func TestLoadConfigEnvKeyWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("gemini_api_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Fatalf("api key = %q, want env-key", cfg.GeminiAPIKey)
	}
}

func TestLoadConfigInvalidTierFallsBackToFree(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("tier: platinum\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Tier != string(types.TierFree) {
		t.Fatalf("tier = %q, want free", cfg.Tier)
	}
}

func TestLoadConfigMalformedYAMLErrors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("tier: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	want := DefaultConfig()
	want.Tier = string(types.TierPro)
	want.DataDir = "/tmp/custodyx-test"
	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

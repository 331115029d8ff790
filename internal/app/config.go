package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"custodyx/internal/types"
)

type Config struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
	Model        string `yaml:"model"`
	Tier         string `yaml:"tier"`
	DataDir      string `yaml:"data_dir"`
	Verbose      bool   `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Model: "gemini-2.5-flash",
		Tier:  string(types.TierFree),
	}
}

// LoadConfig reads the YAML config at path, falling back to defaults when the
// file is absent. The GEMINI_API_KEY environment variable always wins over
// the file so the key never has to live on disk.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		cfg.GeminiAPIKey = key
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if _, ok := types.ParseTier(cfg.Tier); !ok {
		cfg.Tier = string(types.TierFree)
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "custodyx", "config.yml")
}

// SubscriptionTier parses the configured tier, defaulting to Free.
func (c Config) SubscriptionTier() types.Tier {
	if tier, ok := types.ParseTier(c.Tier); ok {
		return tier
	}
	return types.TierFree
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const appDirName = "tempo"

type Config struct {
	ServerURL      string        `yaml:"server_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	HourScale      int           `yaml:"hour_scale"`

	// Derived, not persisted.
	ConfigDir  string `yaml:"-"`
	DBPath     string `yaml:"-"`
	CookiePath string `yaml:"-"`
}

func defaults(dir string) Config {
	return Config{
		ServerURL:      "http://localhost:8000/api/v1",
		RequestTimeout: 20 * time.Second,
		HourScale:      60,
		ConfigDir:      dir,
		DBPath:         filepath.Join(dir, "plans.db"),
		CookiePath:     filepath.Join(dir, "cookies.json"),
	}
}

// Dir resolves the tempo config directory under the user's config home.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads config.yaml from dir, falling back to defaults when the file
// does not exist. TEMPO_SERVER overrides the configured server URL.
func Load(dir string) (Config, error) {
	if dir == "" {
		return Config{}, fmt.Errorf("config dir is required")
	}
	cfg := defaults(dir)

	b, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("TEMPO_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}
	if cfg.HourScale <= 0 {
		cfg.HourScale = 60
	}
	return cfg, nil
}

// Save writes config.yaml, creating the directory when missing.
func Save(cfg Config) error {
	if cfg.ConfigDir == "" {
		return fmt.Errorf("config dir is required")
	}
	if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.ConfigDir, "config.yaml"), b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appName = "weather"

const fileName = "config.yaml"

// Settings is the single persisted record: which provider was selected last.
type Settings struct {
	ProviderName string `yaml:"provider_name"`
}

// DefaultPath returns the per-user location of the settings file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, fileName), nil
}

// Load reads the persisted settings. A missing file is not an error, it
// means no selection has been made yet. An unreadable or corrupt file is an
// error; callers treat it as fatal.
func Load(path string) (Settings, error) {
	var settings Settings

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("corrupted settings %s: %w", path, err)
	}

	return settings, nil
}

// Save writes the settings, creating the parent directory on first use.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	raw, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}

	return nil
}

// Package storage persists user settings and the schedule snapshot as JSON
// files, in the same layout the companion tooling reads and writes.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/core/model"
)

// ConfigStore keeps the address and monitoring settings in a JSON file.
type ConfigStore struct {
	path string
}

// NewConfigStore returns a store backed by the file at path.
func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

// Load reads the stored settings. A missing file yields the defaults, so a
// first run starts with monitoring off and no address.
func (s *ConfigStore) Load() (model.UserConfig, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultUserConfig(), nil
	}
	if err != nil {
		return model.UserConfig{}, fmt.Errorf("read config %s: %w", s.path, err)
	}
	cfg := model.DefaultUserConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return model.UserConfig{}, fmt.Errorf("decode config %s: %w", s.path, err)
	}
	return cfg, nil
}

// Save writes the settings, creating the parent directory when needed.
func (s *ConfigStore) Save(cfg model.UserConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
)

// StorageConfig locates the persisted user config and schedule cache.
type StorageConfig struct {
	// Dir is the base directory for state files. Defaults to the
	// platform config directory under "blackout-tracker".
	Dir string `json:"dir"`
	// ConfigFile holds the address and monitoring settings.
	ConfigFile string `json:"config_file"`
	// SnapshotFile holds the cached schedule.
	SnapshotFile string `json:"snapshot_file"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Dir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			c.Dir = filepath.Join(base, "blackout-tracker")
		} else {
			c.Dir = "."
		}
	}
	if c.ConfigFile == "" {
		c.ConfigFile = "config.json"
	}
	if c.SnapshotFile == "" {
		c.SnapshotFile = "schedule_cache.json"
	}
}

// ConfigPath returns the full path of the user config file.
func (c StorageConfig) ConfigPath() string {
	return filepath.Join(c.Dir, c.ConfigFile)
}

// SnapshotPath returns the full path of the schedule cache file.
func (c StorageConfig) SnapshotPath() string {
	return filepath.Join(c.Dir, c.SnapshotFile)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Storage StorageConfig `json:"storage"`
	Fetcher FetcherConfig `json:"fetcher"`
	Notify  NotifyConfig  `json:"notify"`
	Metrics MetricsConfig `json:"metrics"`
	Sentry  SentryConfig  `json:"sentry"`
}

// Load reads the boot configuration from path and applies BT_-prefixed
// environment overrides. A missing file is not an error: every section has
// working defaults, so the tool runs unconfigured.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Optional environment overrides. The callback turns BT_SECTION__FIELD
	// into section.field, so the provider must unflatten on ".".
	if err := k.Load(env.Provider("BT_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Storage.SetDefaults()
	cfg.Fetcher.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Fetcher.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Notify.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

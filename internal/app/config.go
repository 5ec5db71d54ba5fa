package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/subbot/core/config"
	"github.com/m3rciful/subbot/internal/picker"
)

// AccessConfig seeds the admin set at startup.
type AccessConfig struct {
	Admins []int64 `yaml:"admins" envconfig:"ACCESS_ADMINS"`
}

// PickerConfig tunes the selection picker.
type PickerConfig struct {
	PageSize int `yaml:"page_size" envconfig:"PICKER_PAGE_SIZE"`
}

// HealthConfig configures the HTTP health listener. Empty Listen disables it.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// Config is the full bot configuration: the shared runtime sections plus
// the subscription bot's own.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Access AccessConfig `yaml:"access"`
	Picker PickerConfig `yaml:"picker"`
	Health HealthConfig `yaml:"health"`
}

// CoreConfig exposes the runtime configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path, overlays the environment and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	switch {
	case cfg.Picker.PageSize == 0:
		cfg.Picker.PageSize = picker.DefaultPageSize
	case cfg.Picker.PageSize < 0:
		return fmt.Errorf("picker.page_size must be > 0, got %d", cfg.Picker.PageSize)
	}

	for _, id := range cfg.Access.Admins {
		if id == 0 {
			return fmt.Errorf("access.admins contains an empty id")
		}
	}

	cfg.Health.Listen = strings.TrimSpace(cfg.Health.Listen)
	return nil
}

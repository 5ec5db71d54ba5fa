package app

import (
	"fmt"

	"github.com/m3rciful/subbot/core/bootstrap"
	corecmd "github.com/m3rciful/subbot/core/cmd"
)

// LoadConfig adapts Load to the runner.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bootstrap initialises logging and assembles the App.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	if _, err := bootstrap.Run(bootstrap.Options{Config: &cfg.Config}); err != nil {
		return nil, err
	}
	return New(cfg)
}

// RunOptions returns runner options for the subscription bot.
func RunOptions(configPath string) corecmd.Options {
	return corecmd.Options{
		ConfigPath:        configPath,
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        LoadConfig,
		Bootstrap:         Bootstrap,
	}
}

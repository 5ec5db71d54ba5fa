// Package config loads the runtime settings shared by every bot built on core:
// the Telegram connection, the webhook endpoint and logging.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Update delivery modes accepted in telegram.run_mode.
const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"
)

type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"BOT_TOKEN"`
	// AdminID is the superadmin. Only this account may grant or revoke admins.
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds of 0 selects the poller default.
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// Addr is the host:port the webhook server binds to.
func (w WebhookConfig) Addr() string {
	return net.JoinHostPort(strings.TrimSpace(w.Listen), strconv.Itoa(w.Port))
}

type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file"`
	// Profile is "prod" unless set; "dev" and "debug" switch the default format to kv.
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// Config is the core section every application config embeds.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Decode fills out, a pointer to a struct, from the YAML file at path and
// then applies environment overrides.
func Decode(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := envconfig.Process("", out); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}
	return nil
}

// Normalize validates cfg and canonicalises the run mode. Every problem found
// is reported in the returned error.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	var errs []error
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		errs = append(errs, errors.New("telegram.token is required"))
	}
	if cfg.Telegram.AdminID == 0 {
		errs = append(errs, errors.New("telegram.admin_id is required"))
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	switch mode {
	case "", "polling", RunModeLongpoll:
		mode = RunModeLongpoll
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			errs = append(errs, errors.New("telegram.longpoll_timeout_seconds must be >= 0"))
		}
	case RunModeWebhook:
		errs = append(errs, cfg.Webhook.validate()...)
	default:
		errs = append(errs, fmt.Errorf("telegram.run_mode %q is not one of webhook, longpoll", cfg.Telegram.RunMode))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	cfg.Telegram.RunMode = mode
	return nil
}

func (w WebhookConfig) validate() []error {
	var errs []error
	if strings.TrimSpace(w.URL) == "" {
		errs = append(errs, errors.New("webhook.url is required in webhook mode"))
	}
	if strings.TrimSpace(w.Listen) == "" {
		errs = append(errs, errors.New("webhook.listen is required in webhook mode"))
	}
	if w.Port <= 0 {
		errs = append(errs, errors.New("webhook.port must be > 0 in webhook mode"))
	}
	return errs
}

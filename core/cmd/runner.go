// Package cmd drives a bot process: resolve and load the config, bootstrap
// the application, then run Telegram until a signal arrives.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/subbot/core/config"
	"github.com/m3rciful/subbot/core/logger"
	coretelegram "github.com/m3rciful/subbot/core/telegram"
)

// ConfigCarrier is an application config that embeds the core section.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp builds the options RunTelegram needs.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

type Options struct {
	// ConfigPath, when set, wins over ConfigEnvVar and DefaultConfigPath.
	ConfigPath        string
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	// Overridable for tests.
	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error

	// Context defaults to one cancelled on SIGINT or SIGTERM.
	Context context.Context
}

func (o Options) envVar() string {
	if o.ConfigEnvVar == "" {
		return "CONFIG_PATH"
	}
	return o.ConfigEnvVar
}

// ResolveConfigPath returns the first of the explicit path, the env var and
// the default that is set.
func ResolveConfigPath(opts Options) (string, error) {
	for _, p := range []string{opts.ConfigPath, os.Getenv(opts.envVar()), opts.DefaultConfigPath} {
		if p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("cmd: no config path: pass --config or set %s", opts.envVar())
}

// Run loads the config, bootstraps the app and blocks in RunTelegram.
func Run(opts Options) error {
	if opts.LoadConfig == nil || opts.Bootstrap == nil {
		return errors.New("cmd: LoadConfig and Bootstrap are required")
	}
	path, err := ResolveConfigPath(opts)
	if err != nil {
		return err
	}

	// The structured logger is configured by Bootstrap, so this line goes to stderr.
	log.Printf("loading config: %s", path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: load config: %w", err)
	}
	if cfg.CoreConfig() == nil {
		return errors.New("cmd: config has no core section")
	}

	app, err := opts.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap: %w", err)
	}
	defer func() {
		shutdown := opts.ShutdownLogger
		if shutdown == nil {
			shutdown = logger.Shutdown
		}
		if err := shutdown(); err != nil {
			log.Printf("logger shutdown: %v", err)
		}
	}()

	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options: %w", err)
	}
	runOpts = withLifecycleLogs(runOpts, time.Now())

	ctx := opts.Context
	if ctx == nil {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
	}
	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	return run(ctx, runOpts)
}

// withLifecycleLogs wraps the app hooks so "ready" is logged after OnStart
// succeeds and "shutdown" before OnStop runs.
func withLifecycleLogs(ro coretelegram.RunOptions, startedAt time.Time) coretelegram.RunOptions {
	start, stop := ro.OnStart, ro.OnStop
	ro.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if start != nil {
			if err := start(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, "app", "ready",
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))))
		return nil
	}
	ro.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Info(ctx, "app", "shutdown")
		if stop == nil {
			return nil
		}
		return stop(ctx, rt)
	}
	return ro
}

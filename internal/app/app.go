// Package app wires configuration, the controller and the Telegram runtime together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/m3rciful/subbot/core/logger"
	coretelegram "github.com/m3rciful/subbot/core/telegram"
	"github.com/m3rciful/subbot/internal/bot"
	"github.com/m3rciful/subbot/internal/health"

	tele "gopkg.in/telebot.v4"
)

// App is the assembled subscription bot.
type App struct {
	cfg    *Config
	ctrl   *bot.Controller
	tg     *bot.Telegram
	health *health.Server

	mu   sync.Mutex
	// menu publishes the admin command menu to one chat. Set while the
	// runtime is up.
	menu func(ctx context.Context, chat int64) error
}

// New builds the bot from cfg. The registry starts empty.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	a := &App{cfg: cfg}
	ctrl := bot.New(bot.Options{
		Superadmin: cfg.Telegram.AdminID,
		Admins:     cfg.Access.Admins,
		PageSize:   cfg.Picker.PageSize,
		OnGrant:    a.onGrant,
	})
	a.ctrl = ctrl
	a.tg = bot.NewTelegram(ctrl)
	if cfg.Health.Listen != "" {
		a.health = health.New(cfg.Health.Listen, func() any { return ctrl.Status() })
	}
	return a, nil
}

// Controller returns the bot controller.
func (a *App) Controller() *bot.Controller {
	return a.ctrl
}

// TelegramRunOptions registers commands and callbacks and returns the runtime options.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.tg.Register(reg); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: %w", err)
	}
	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      a.tg.Routes(reg),
		AdminChats:  a.adminChats(),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

// adminChats lists the private chats that get the admin command menu.
func (a *App) adminChats() []int64 {
	chats := []int64{a.cfg.Telegram.AdminID}
	for _, id := range a.cfg.Access.Admins {
		if !slices.Contains(chats, id) {
			chats = append(chats, id)
		}
	}
	return chats
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	if a.health != nil {
		if err := a.health.Start(ctx); err != nil {
			return err
		}
	}
	if rt.Bot != nil {
		a.setMenu(func(ctx context.Context, chat int64) error {
			publish := func() error { return coretelegram.SetAdminMenu(ctx, rt.Bot, rt.Registry, chat) }
			if rt.Dispatcher != nil && rt.Dispatcher.Enqueue(ctx, "set.commands", "setMyCommands", publish) == nil {
				return nil
			}
			return publish()
		})
	}
	a.notifyStarted(ctx, rt)
	if a.health != nil {
		a.health.SetReady(true)
	}
	return nil
}

func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	a.setMenu(nil)
	if a.health == nil {
		return nil
	}
	return a.health.Shutdown(ctx)
}

func (a *App) setMenu(fn func(ctx context.Context, chat int64) error) {
	a.mu.Lock()
	a.menu = fn
	a.mu.Unlock()
}

// onGrant gives an admin added at runtime the same command menu the
// configured admins got at startup.
func (a *App) onGrant(ctx context.Context, id int64) {
	a.mu.Lock()
	menu := a.menu
	a.mu.Unlock()
	if menu == nil {
		logger.Warn(ctx, "app", "admin.menu",
			slog.String("status", "skip"),
			slog.Int64("target_id", id),
			slog.String("reason", "no_bot"),
		)
		return
	}
	if err := menu(ctx, id); err != nil {
		logger.Warn(ctx, "app", "admin.menu",
			slog.String("status", "fail"),
			slog.Int64("target_id", id),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Info(ctx, "app", "admin.menu",
		slog.String("status", "ok"),
		slog.Int64("target_id", id),
	)
}

// notifyStarted tells the superadmin the bot is up. Failures are logged only.
func (a *App) notifyStarted(ctx context.Context, rt coretelegram.Runtime) {
	if rt.Bot == nil {
		logger.Warn(ctx, "app", "notify.start",
			slog.String("status", "skip"),
			slog.String("reason", "no_bot"),
		)
		return
	}
	to := &tele.User{ID: a.ctrl.Superadmin()}
	send := func() error {
		_, err := rt.Bot.Send(to, bot.MsgStarted)
		return err
	}
	if rt.Dispatcher != nil {
		err := rt.Dispatcher.Enqueue(ctx, "send.text", "sendMessage", send)
		if err == nil {
			return
		}
		logger.Warn(ctx, "app", "notify.start",
			slog.String("status", "retry"),
			slog.String("err", err.Error()),
		)
	}
	if err := send(); err != nil {
		logger.Warn(ctx, "app", "notify.start",
			slog.String("status", "fail"),
			slog.Int64("target_id", to.ID),
			slog.String("err", err.Error()),
		)
	}
}

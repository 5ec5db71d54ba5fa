package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/subbot/core/config"
	"github.com/m3rciful/subbot/core/logger"
	tghelpers "github.com/m3rciful/subbot/core/telegram/helpers"
	tgsender "github.com/m3rciful/subbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	// AdminChats receive the full command menu, admin-only commands included.
	AdminChats []int64

	DisableWebhookCleanup   bool
	DisableHelperDispatcher bool

	// OnStart runs after routes are wired and before the receive loop starts.
	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram starts the bot and blocks until ctx is cancelled or the
// poller stops. Cancellation is a clean exit and returns nil.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}

	bot, err := newBot(ctx, opts.Config)
	if err != nil {
		return err
	}

	rt := Runtime{Bot: bot, Dispatcher: opts.Dispatcher, Registry: opts.Registry}
	if rt.Dispatcher == nil {
		rt.Dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	if !opts.DisableHelperDispatcher {
		tghelpers.SetDispatcher(rt.Dispatcher)
	}
	release := func() {
		rt.Dispatcher.Close()
		if !opts.DisableHelperDispatcher {
			tghelpers.SetDispatcher(nil)
		}
	}

	if !opts.DisableWebhookCleanup && !isWebhook(bot) {
		clearWebhook(ctx, bot)
	}
	wire(bot, opts)
	InitBotCommands(ctx, bot, rt.Registry, opts.AdminChats...)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			release()
			return err
		}
	}

	runErr := serve(ctx, bot)

	var stopErr error
	if opts.OnStop != nil {
		// ctx is already cancelled here; hooks get a fresh one for cleanup
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		stopErr = opts.OnStop(stopCtx, rt)
		cancel()
	}
	release()

	if stopErr != nil {
		return stopErr
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func newBot(ctx context.Context, cfg *coreconfig.Config) (*tele.Bot, error) {
	pollTimeout := PollTimeout(cfg.Telegram)
	poller := BuildPoller(cfg)

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(pollTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}

	attrs := []slog.Attr{slog.Duration("duration", logger.RoundMS(time.Since(start)))}
	if wh, ok := poller.(*tele.Webhook); ok {
		attrs = append(attrs,
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", wh.Listen),
			slog.String("public_url", wh.Endpoint.PublicURL),
		)
	} else {
		attrs = append(attrs,
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Int("timeout_seconds", int(pollTimeout/time.Second)),
		)
	}
	logger.Info(ctx, "tg", "mode", attrs...)
	return bot, nil
}

func isWebhook(bot *tele.Bot) bool {
	_, ok := bot.Poller.(*tele.Webhook)
	return ok
}

// clearWebhook drops a webhook left from an earlier run, which would
// otherwise make getUpdates fail. Pending updates are kept.
func clearWebhook(ctx context.Context, bot *tele.Bot) {
	if err := bot.RemoveWebhook(false); err != nil {
		logger.Warn(ctx, "tg", "delete_webhook",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Info(ctx, "tg", "delete_webhook", slog.String("status", "ok"))
}

func wire(bot *tele.Bot, opts RunOptions) {
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			bot.Handle(r.Endpoint, r.Handler)
		}
	}
}

// serve runs the receive loop until ctx ends or the bot stops by itself.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		bot.Start()
		close(done)
	}()
	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

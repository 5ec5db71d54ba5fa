package router

import (
	"log/slog"

	tg "github.com/m3rciful/subbot/core/telegram"
	"github.com/m3rciful/subbot/core/telegram/callbacks"
	"github.com/m3rciful/subbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	// NotFound overrides the registry's unknown-callback handler.
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches every button press by its unique through reg.
// Handlers answer the callback themselves so they can attach a notice or alert.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		key := callbacks.CallbackKey(c)
		name := "callback." + normalizeHandlerName(key)

		if h, ok := reg.GetCallback(key); ok {
			return run(c, name, h, slog.String("cb_key", key))
		}

		fallback := opts.NotFound
		if fallback == nil {
			fallback = reg.CallbackNotFound()
		}
		if fallback == nil {
			fallback = func(c tele.Context) error { return c.Respond() }
		}
		return run(c, name, fallback, slog.String("cb_key", key), slog.String("reason", "not_found"))
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/subbot/core/logger"
	tg "github.com/m3rciful/subbot/core/telegram"
	"github.com/m3rciful/subbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes prepares command handlers wrapped with shared middleware.
// Every alias gets its own endpoint bound to the same handler.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	names := reg.CommandNames()
	defs := reg.Commands()

	routes := make([]tg.Route, 0, len(names))
	for _, cmd := range names {
		def := defs[cmd]
		h := summarized(normalizeHandlerName(cmd), def.Handler)
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		routes = append(routes, tg.Route{Endpoint: cmd, Handler: h})
		for _, alias := range def.Aliases {
			if alias == "" {
				continue
			}
			if alias[0] != '/' {
				alias = "/" + alias
			}
			routes = append(routes, tg.Route{Endpoint: alias, Handler: h})
		}
	}

	summary, truncated := logger.SummarizeStrings(names, 8)
	logger.Info(context.Background(), "tg.wire", "complete",
		slog.Int("commands", len(names)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
		slog.String("summary", summary),
		slog.Bool("truncated", truncated),
	)

	return routes
}

func summarized(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		return run(c, name, h, slog.String("command", name))
	}
}

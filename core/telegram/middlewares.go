package telegram

import (
	"github.com/m3rciful/subbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain for bots.
// Routes built by the router package already wrap their handlers with
// recover and logger; the global chain adds message metrics on top.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}

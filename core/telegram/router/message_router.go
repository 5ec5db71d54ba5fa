package router

import (
	tg "github.com/m3rciful/subbot/core/telegram"
	"github.com/m3rciful/subbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions supplies handlers for text and documents that match nothing.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds the text and document routes. Text naming a registered
// command that telebot did not match itself, such as "/ad@otherbot", is
// dispatched to that command before UnknownText.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(commandWord(c.Text())); ok && cmd.Handler != nil {
				return run(c, normalizeHandlerName(key), cmd.Handler)
			}
		}
		if opts.UnknownText == nil {
			skip(c, "unknown_text")
			return nil
		}
		return run(c, "unknown_text", opts.UnknownText)
	}

	doc := func(c tele.Context) error {
		if opts.UnknownDocument == nil {
			skip(c, "unexpected_document")
			return nil
		}
		return run(c, "unexpected_document", opts.UnknownDocument)
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(text)},
		{Endpoint: tele.OnDocument, Handler: wrap(doc)},
	}
}

// Fallbacks supplies handlers for updates no command or callback claimed.
type Fallbacks interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}

// FallbackRoutes installs f as the unknown-callback handler on reg and
// returns text and document routes answering through f.
func FallbackRoutes(reg *tg.Registry, f Fallbacks) []tg.Route {
	if reg != nil {
		reg.SetCallbackNotFound(f.UnknownCallback())
	}
	return TextRoutes(reg, TextOptions{
		UnknownText:     f.UnknownText(),
		UnknownDocument: f.UnknownDocument(),
	})
}

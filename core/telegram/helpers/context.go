// Package helpers bridges telebot contexts to the logger and the send queue.
package helpers

import (
	"context"

	"github.com/m3rciful/subbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Keys in the telebot per-update store.
const (
	keyCtx     = "logger_ctx"
	keyRID     = "rid"
	keyOutcome = "handler_outcome"
	keyErrCode = "handler_err_code"
)

// StoreContext caches ctx on c so later BuildContext calls return it.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(keyCtx, ctx)
	}
}

// ContextFrom returns the context cached by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(keyCtx).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext returns the cached request context for c, creating one that
// carries the update meta and the "tg" component logger on first use.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	meta := logger.NewMeta(c.Update().ID, idOf(c.Chat()), senderID(c.Sender()))
	if rid, _ := c.Get(keyRID).(string); rid != "" {
		meta.RID = rid
	}
	ctx := logger.WithLogger(logger.WithMeta(context.Background(), meta), logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

func idOf(chat *tele.Chat) int64 {
	if chat == nil {
		return 0
	}
	return chat.ID
}

func senderID(u *tele.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

// WithHandler tags the cached context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler != "" {
		ctx = logger.WithHandler(ctx, handler)
		StoreContext(c, ctx)
	}
	return ctx
}

// MarkOutcome records how a handler resolved an update it answered without
// returning an error, such as a denied or malformed command.
func MarkOutcome(c tele.Context, outcome, code string) {
	if c == nil {
		return
	}
	c.Set(keyOutcome, outcome)
	c.Set(keyErrCode, code)
}

// OutcomeFrom returns what MarkOutcome stored.
func OutcomeFrom(c tele.Context) (outcome, code string) {
	if c == nil {
		return "", ""
	}
	outcome, _ = c.Get(keyOutcome).(string)
	code, _ = c.Get(keyErrCode).(string)
	return outcome, code
}

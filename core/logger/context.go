package logger

import (
	"context"
	"log/slog"
)

// Meta is the update correlation data repeated on every line logged while
// an update is being handled.
type Meta struct {
	RID      string
	UpdateID int
	UserID   int64
	ChatID   int64
	Handler  string
}

// NewMeta builds Meta for an update, deriving RID from the identifiers.
func NewMeta(updateID int, chatID, userID int64) Meta {
	return Meta{
		RID:      BuildRID(updateID, chatID, userID),
		UpdateID: updateID,
		UserID:   userID,
		ChatID:   chatID,
	}
}

type ctxKey uint8

const (
	keyLogger ctxKey = iota
	keyMeta
)

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithMeta stores m in ctx, replacing any previous value.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(orBackground(ctx), keyMeta, m)
}

// MetaFrom returns the Meta stored in ctx or the zero value.
func MetaFrom(ctx context.Context) Meta {
	if ctx == nil {
		return Meta{}
	}
	m, _ := ctx.Value(keyMeta).(Meta)
	return m
}

// WithHandler sets the handler name on the Meta carried by ctx.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		return orBackground(ctx)
	}
	m := MetaFrom(ctx)
	m.Handler = handler
	return WithMeta(ctx, m)
}

// WithLogger stores log in ctx. A nil log leaves ctx unchanged.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	ctx = orBackground(ctx)
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, keyLogger, log)
}

// FromContext returns the logger stored in ctx, falling back to L.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(keyLogger).(*slog.Logger); ok {
			return l
		}
	}
	return L
}

// fill copies non-zero fields into out unless an attribute already set them.
func (m Meta) fill(out map[string]any) {
	put := func(key string, v any, ok bool) {
		if !ok {
			return
		}
		if _, seen := out[key]; !seen {
			out[key] = v
		}
	}
	put("rid", m.RID, m.RID != "")
	put("user_id", m.UserID, m.UserID != 0)
	put("update_id", m.UpdateID, m.UpdateID != 0)
	put("chat_id", m.ChatID, m.ChatID != 0)
	put("handler", m.Handler, m.Handler != "")
}

package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/subbot/core/logger"
	"github.com/m3rciful/subbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/subbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// seenUpdates remembers recent update ids so an update that passes through
// the global and the route-level LoggerMiddleware is logged once.
type seenUpdates struct {
	mu  sync.Mutex
	ttl time.Duration
	ids map[int]time.Time
}

var receipts = &seenUpdates{ttl: 10 * time.Second, ids: make(map[int]time.Time)}

// first reports whether id was not seen within ttl, and marks it seen.
func (s *seenUpdates) first(id int, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, at := range s.ids {
		if now.Sub(at) > s.ttl {
			delete(s.ids, k)
		}
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = now
	return true
}

// LoggerMiddleware stores the update's logging context on c and logs a
// sampled update.received line once per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}
		meta := logger.NewMeta(upd.ID, chatID, userID)
		c.Set("rid", meta.RID)

		ctx := logger.WithLogger(logger.WithMeta(logger.Background(), meta), logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if receipts.first(upd.ID, time.Now()) && logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", receiptAttrs(c)...)
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("status", "ok")}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}

	upd := c.Update()
	switch {
	case upd.Callback != nil:
		key, payload := upd.Callback.Unique, upd.Callback.Data
		if key == "" {
			key, payload = callbacks.ParseCallbackData(upd.Callback)
		}
		attrs = append(attrs,
			slog.String("cb_key", logger.SanitizeLimit(key, 128)),
			slog.String("payload", logger.SanitizeLimit(payload, 256)),
		)
	case upd.Message != nil:
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
	}
	return attrs
}

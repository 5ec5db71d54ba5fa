package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const replyStatsKey = "reply_stats"

// ReplyStats records what a handler sent back, for the per-update summary line.
type ReplyStats struct {
	Messages int
	Keyboard bool
}

// countingContext counts successful sends and edits made through it.
type countingContext struct {
	tele.Context
	stats *ReplyStats
}

func (c countingContext) count(err error, what any, opts []any) error {
	if err != nil {
		return err
	}
	c.stats.Messages++
	if carriesKeyboard(what) {
		c.stats.Keyboard = true
	}
	for _, o := range opts {
		if carriesKeyboard(o) {
			c.stats.Keyboard = true
		}
	}
	return nil
}

func carriesKeyboard(v any) bool {
	switch x := v.(type) {
	case *tele.ReplyMarkup:
		return x != nil
	case *tele.SendOptions:
		return x != nil && x.ReplyMarkup != nil
	}
	return false
}

func (c countingContext) Send(what any, opts ...any) error {
	return c.count(c.Context.Send(what, opts...), what, opts)
}

func (c countingContext) Reply(what any, opts ...any) error {
	return c.count(c.Context.Reply(what, opts...), what, opts)
}

func (c countingContext) Edit(what any, opts ...any) error {
	return c.count(c.Context.Edit(what, opts...), what, opts)
}

func (c countingContext) EditOrSend(what any, opts ...any) error {
	return c.count(c.Context.EditOrSend(what, opts...), what, opts)
}

func (c countingContext) EditOrReply(what any, opts ...any) error {
	return c.count(c.Context.EditOrReply(what, opts...), what, opts)
}

// MessageMetricsMiddleware wraps the context so replies are counted.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if _, ok := c.Get(replyStatsKey).(*ReplyStats); ok {
			return next(c)
		}
		stats := &ReplyStats{}
		c.Set(replyStatsKey, stats)
		return next(countingContext{Context: c, stats: stats})
	}
}

// GetCounters returns the reply count and whether any reply carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	stats, ok := c.Get(replyStatsKey).(*ReplyStats)
	if !ok {
		return 0, false
	}
	return stats.Messages, stats.Keyboard
}

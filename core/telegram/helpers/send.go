package helpers

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/m3rciful/subbot/core/logger"
	"github.com/m3rciful/subbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher routes SendText through d. nil restores direct sends.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// enqueue hands send to the dispatcher. With no dispatcher, or when the queue
// is full or closed, the send runs inline instead.
func enqueue(c tele.Context, action, endpoint string, send func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return send()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, endpoint, send)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("status", "retry"),
			slog.String("op", action),
			slog.String("err", err.Error()),
		)
		return send()
	}
	return err
}

// SendText sends text without a parse mode to the chat of c.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	args := make([]any, 0, 1)
	if len(opts) > 0 && opts[0] != nil {
		args = append(args, opts[0])
	}
	return enqueue(c, "send.text", "sendMessage", func() error {
		return c.Send(text, args...)
	})
}

// EditText replaces the text of the message a callback came from and removes
// its keyboard.
func EditText(c tele.Context, text string) error {
	return unlessUnchanged(c.Edit(text, &tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{}}))
}

// EditMarkup replaces only the keyboard of the message a callback came from.
func EditMarkup(c tele.Context, markup *tele.ReplyMarkup) error {
	if markup == nil {
		markup = &tele.ReplyMarkup{}
	}
	return unlessUnchanged(c.Edit(markup))
}

// Answer acknowledges a callback query. Empty text sends a bare ack.
func Answer(c tele.Context, text string, alert bool) error {
	switch {
	case c.Callback() == nil:
		return nil
	case text == "":
		return c.Respond()
	default:
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: alert})
	}
}

// unlessUnchanged drops the error Telegram returns when an edit would leave
// the message as it is.
func unlessUnchanged(err error) error {
	if err == nil || errors.Is(err, tele.ErrSameMessageContent) ||
		strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

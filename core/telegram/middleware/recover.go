package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/subbot/core/logger"
	tghelpers "github.com/m3rciful/subbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// PanicError is returned in place of a handler that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("handler panic: %v", e.Value) }

// RecoverMiddleware turns a handler panic into a *PanicError and logs the stack.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(tghelpers.BuildContext(c), "tg", "panic",
				slog.String("status", "fail"),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = &PanicError{Value: r}
		}()
		return next(c)
	}
}

package router

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/subbot/core/logger"
	tghelpers "github.com/m3rciful/subbot/core/telegram/helpers"
	"github.com/m3rciful/subbot/core/telegram/middleware"
	"github.com/m3rciful/subbot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

// run calls h under name and logs one handler.handled line for it.
func run(c tele.Context, name string, h tele.HandlerFunc, extras ...slog.Attr) error {
	start := time.Now()
	tghelpers.WithHandler(c, name)
	err := h(c)
	summarize(c, name, start, logger.Status(err), err, extras...)
	return err
}

// skip logs that nothing handled the update.
func skip(c tele.Context, name string) {
	summarize(c, name, time.Now(), "skip", nil)
}

// summarize writes the handler line. A nil err may still carry a domain
// outcome recorded by the handler through helpers.MarkOutcome.
func summarize(c tele.Context, name string, start time.Time, status string, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, name)
	msgs, kb := middleware.GetCounters(c)
	outcome, code := tghelpers.OutcomeFrom(c)
	if err != nil {
		outcome, code = "fail", errorCode(err)
	}
	if outcome == "" {
		outcome = "ok"
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", name),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", time.Since(start)),
		slog.String("err_code", code),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(netutil.Redact(err), 256)))
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", append(attrs, extras...)...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// errorCode prefers a Code() carried by err, then the Bot API status.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var coder interface{ Code() string }
	if errors.As(err, &coder) {
		if code := strings.TrimSpace(coder.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	if status := netutil.StatusCode(err); status > 0 {
		return "TG_" + strconv.Itoa(status)
	}
	return "INTERNAL"
}

// commandWord extracts "/cmd" from "/cmd@botname arg ...". Non-command text yields "".
func commandWord(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	word, _, _ := strings.Cut(text, " ")
	word, _, _ = strings.Cut(word, "@")
	return word
}

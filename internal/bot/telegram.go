package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/subbot/core/logger"
	tg "github.com/m3rciful/subbot/core/telegram"
	"github.com/m3rciful/subbot/core/telegram/callbacks"
	"github.com/m3rciful/subbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/subbot/core/telegram/helpers"
	"github.com/m3rciful/subbot/core/telegram/keyboard"
	"github.com/m3rciful/subbot/core/telegram/router"
	"github.com/m3rciful/subbot/internal/access"
	"github.com/m3rciful/subbot/internal/picker"

	tele "gopkg.in/telebot.v4"
)

// Telegram binds a Controller to telebot handlers.
type Telegram struct {
	ctrl *Controller
}

var _ router.Fallbacks = (*Telegram)(nil)

// NewTelegram returns the telebot adapter for ctrl.
func NewTelegram(ctrl *Controller) *Telegram {
	return &Telegram{ctrl: ctrl}
}

// Register adds every controller command and picker callback to reg.
func (t *Telegram) Register(reg *tg.Registry) error {
	for _, cs := range t.ctrl.Commands() {
		err := reg.RegisterCommand("/"+cs.Name, commands.Command{
			Handler:     t.command(cs.Name),
			Description: cs.Description,
			Usage:       cs.Usage,
			AdminOnly:   cs.Role != access.RoleNone,
			Hidden:      cs.Hidden,
		})
		if err != nil {
			return fmt.Errorf("register /%s: %w", cs.Name, err)
		}
	}
	for _, unique := range picker.Uniques() {
		if err := reg.RegisterCallback(unique, t.callback); err != nil {
			return fmt.Errorf("register callback %s: %w", unique, err)
		}
	}
	return nil
}

// Routes builds the command, callback and fallback routes for reg.
func (t *Telegram) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.FallbackRoutes(reg, t)...)
	return append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
}

// UnknownText answers free text that is not a command.
func (t *Telegram) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, MsgUnknownText)
	}
}

// UnknownDocument answers uploaded files.
func (t *Telegram) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, MsgUnknownDocument)
	}
}

// UnknownCallback answers presses on buttons this bot did not produce.
func (t *Telegram) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		tghelpers.MarkOutcome(c, "fail", "BAD_TOKEN")
		return tghelpers.Answer(c, MsgBadToken, true)
	}
}

func (t *Telegram) command(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		r := t.ctrl.HandleCommand(ctx, Command{
			Name:     name,
			Args:     c.Args(),
			CallerID: senderID(c),
		})
		return t.deliver(ctx, c, r)
	}
}

func (t *Telegram) callback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	tok, err := picker.Parse(callbacks.CallbackKey(c), callbacks.CallbackPayload(c))
	if err != nil {
		logger.Warn(ctx, "picker", "callback.rejected",
			slog.String("status", "skip"),
			slog.String("err", err.Error()),
		)
		tghelpers.MarkOutcome(c, "fail", "BAD_TOKEN")
		return tghelpers.Answer(c, MsgBadToken, true)
	}
	r := t.ctrl.HandleCallback(ctx, CallbackEvent{Token: tok, CallerID: senderID(c)})
	return t.deliver(ctx, c, r)
}

// deliver renders r through telebot. Domain errors were already turned into
// the reply, so only transport failures are returned.
func (t *Telegram) deliver(ctx context.Context, c tele.Context, r Reply) error {
	if r.Err != nil {
		code := ""
		var de *DomainError
		if errors.As(r.Err, &de) {
			code = de.Code()
		}
		tghelpers.MarkOutcome(c, Outcome(r.Err), code)
	}

	if c.Callback() != nil {
		if err := tghelpers.Answer(c, r.Notice, r.Alert); err != nil {
			logger.Warn(ctx, "tg", "callback.answer",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}

	switch r.Kind {
	case ReplyText:
		return tghelpers.SendText(c, r.Text)
	case ReplyTextWithControls:
		return tghelpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: Markup(r.Controls)})
	case ReplyEditControls:
		return tghelpers.EditMarkup(c, Markup(r.Controls))
	case ReplyEditText:
		return tghelpers.EditText(c, r.Text)
	default:
		return nil
	}
}

// Markup converts picker rows into an inline keyboard.
func Markup(rows []picker.Row) *tele.ReplyMarkup {
	var kb keyboard.Inline
	for _, row := range rows {
		line := make([]keyboard.Button, 0, len(row))
		for _, ctl := range row {
			unique, payload := ctl.Token.Encode()
			line = append(line, keyboard.Button{Text: ctl.Label, Unique: unique, Data: payload})
		}
		kb.Row(line...)
	}
	return kb.Markup()
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

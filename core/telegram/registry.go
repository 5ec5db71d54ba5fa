package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/subbot/core/logger"
	"github.com/m3rciful/subbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidRegistration is returned for malformed command or callback registrations.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrDuplicate is returned when a name, alias or callback key is already taken.
	ErrDuplicate = errors.New("already registered")
)

// Registry maps slash commands and callback uniques to handlers.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string
	callbacks map[string]tele.HandlerFunc
	notFound  tele.HandlerFunc
}

// NewRegistry returns an empty registry whose unknown-callback handler just
// acknowledges the press.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
		notFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

func slash(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

func rejected(subject, name, reason string, cause error) error {
	logger.Warn(context.Background(), "tg.wire", "register."+subject+".skip",
		slog.String("status", "skip"),
		slog.String("command", name),
		slog.String("reason", reason),
	)
	return fmt.Errorf("%s %q: %w", subject, name, cause)
}

// RegisterCommand adds cmd under name, which must start with a slash.
// Aliases share the command namespace.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	switch {
	case r == nil, name == "", cmd.Handler == nil, cmd.Description == "":
		return rejected("command", name, "invalid", ErrInvalidRegistration)
	case name[0] != '/':
		return rejected("command", name, "no_slash_prefix", ErrInvalidRegistration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenLocked(name) {
		return rejected("command", name, "duplicate", ErrDuplicate)
	}
	for _, a := range cmd.Aliases {
		if a := slash(a); a == name || r.takenLocked(a) {
			return rejected("command", a, "duplicate_alias", ErrDuplicate)
		}
	}
	r.commands[name] = cmd
	for _, a := range cmd.Aliases {
		r.aliases[slash(a)] = name
	}
	return nil
}

func (r *Registry) takenLocked(name string) bool {
	_, isCmd := r.commands[name]
	_, isAlias := r.aliases[name]
	return isCmd || isAlias
}

// LookupCommand resolves name or one of its aliases, with or without the
// slash, to the canonical command.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = slash(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	cmd, ok := r.commands[name]
	if !ok {
		return "", commands.Command{}, false
	}
	return name, cmd, true
}

// Commands returns a copy of the registered commands keyed by name.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]commands.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// CommandNames returns the registered command names in order.
func (r *Registry) CommandNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for k := range r.commands {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// ListCommands returns the command menu. Hidden commands are never listed;
// publicOnly also drops admin-only ones.
func (r *Registry) ListCommands(publicOnly bool) []tele.Command {
	cmds := r.Commands()
	list := make([]tele.Command, 0, len(cmds))
	for _, name := range r.CommandNames() {
		meta := cmds[name]
		if meta.Hidden || (publicOnly && meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: meta.Description})
	}
	return list
}

// RegisterCallback binds handler to a button unique.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if r == nil || key == "" || handler == nil {
		return rejected("callback", key, "invalid", ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return rejected("callback", key, "duplicate", ErrDuplicate)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler bound to key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered callback keys in order.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetCallbackNotFound replaces the handler for presses with unknown keys.
// A nil h is ignored.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.notFound = h
	r.mu.Unlock()
}

// CallbackNotFound returns the unknown-callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.notFound
}

// InitBotCommands publishes the public menu to everyone and the full menu to
// each chat in adminChats.
func InitBotCommands(ctx context.Context, bot *tele.Bot, reg *Registry, adminChats ...int64) {
	if bot == nil || reg == nil {
		return
	}
	public := reg.ListCommands(true)
	if err := bot.SetCommands(public); err != nil {
		logger.Error(ctx, "tg.wire", "register.commands.set_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return
	}
	scoped := 0
	for _, chat := range adminChats {
		if err := SetAdminMenu(ctx, bot, reg, chat); err == nil {
			scoped++
		}
	}
	logger.Info(ctx, "tg.wire", "register.commands.set",
		slog.String("status", "ok"),
		slog.Int("total", len(public)),
		slog.Int("count", scoped),
	)
}

// SetAdminMenu publishes the full command list to one private chat.
func SetAdminMenu(ctx context.Context, bot *tele.Bot, reg *Registry, chat int64) error {
	if bot == nil || reg == nil {
		return errors.New("telegram: admin menu needs a bot and a registry")
	}
	scope := tele.CommandScope{Type: tele.CommandScopeChat, ChatID: chat}
	if err := bot.SetCommands(reg.ListCommands(false), scope); err != nil {
		logger.Warn(ctx, "tg.wire", "register.commands.scope_failed",
			slog.String("status", "fail"),
			slog.Int64("target_id", chat),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

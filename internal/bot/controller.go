// Package bot turns parsed commands and button presses into replies.
//
// The Controller owns the subscription registry, the access control list and
// the shared picker session. Every entry point takes one lock, so handlers
// running on telebot's goroutines never interleave their mutations. The
// controller knows nothing about Telegram; the adapter in telegram.go feeds
// it and renders its replies.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/m3rciful/subbot/core/logger"
	"github.com/m3rciful/subbot/internal/access"
	"github.com/m3rciful/subbot/internal/picker"
	"github.com/m3rciful/subbot/internal/subscription"
)

// Command is an inbound slash command with its whitespace-split arguments.
type Command struct {
	Name     string
	Args     []string
	CallerID int64
}

// CallbackEvent is a decoded button press.
type CallbackEvent struct {
	Token    picker.Token
	CallerID int64
}

// ReplyKind says how a reply is delivered.
type ReplyKind int

const (
	// ReplyNone sends nothing besides the callback answer.
	ReplyNone ReplyKind = iota
	// ReplyText sends a new plain message.
	ReplyText
	// ReplyTextWithControls sends a new message carrying inline buttons.
	ReplyTextWithControls
	// ReplyEditControls swaps the buttons of the message that was pressed.
	ReplyEditControls
	// ReplyEditText replaces the pressed message text and drops its buttons.
	ReplyEditText
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyText:
		return "text"
	case ReplyTextWithControls:
		return "text_with_controls"
	case ReplyEditControls:
		return "edit_controls"
	case ReplyEditText:
		return "edit_text"
	default:
		return "none"
	}
}

// Reply is what the transport should do in response to one event.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Controls []picker.Row
	// Notice is the callback answer; Alert shows it as a dialog.
	Notice string
	Alert  bool
	// Err is the domain error the reply reports, nil on success.
	Err error

	// granted is the id a successful /admin added, for Options.OnGrant.
	granted int64
}

func textReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

func failReply(err *DomainError) Reply {
	return Reply{Kind: ReplyText, Text: err.Message, Err: err}
}

// CommandSpec describes one command for registration and /help.
type CommandSpec struct {
	Name        string
	Usage       string
	Description string
	// Role is the least role allowed to run the command.
	Role access.Role
	// Hidden commands work but are left out of menus and /help.
	Hidden bool
}

// Status is a point-in-time view of the bot state.
type Status struct {
	Subscriptions int    `json:"subscriptions"`
	Admins        int    `json:"admins"`
	SessionID     string `json:"session_id,omitempty"`
	Selected      int    `json:"selected"`
	Page          int    `json:"page"`
}

// Options configure a Controller.
type Options struct {
	Superadmin int64
	Admins     []int64
	PageSize   int
	// OnGrant runs after /admin adds a new admin, outside the controller lock.
	OnGrant    func(ctx context.Context, id int64)
}

type commandFunc func(ctx context.Context, cmd Command, role access.Role) Reply

// Controller dispatches commands and callbacks against the bot state.
type Controller struct {
	mu       sync.Mutex
	subs     *subscription.Registry
	acl      *access.Control
	pageSize int
	onGrant  func(ctx context.Context, id int64)
	// session is created by the first /convert or picker press and then lives
	// for the process lifetime.
	session *picker.Session

	specs    []CommandSpec
	handlers map[string]commandFunc
}

// New builds a controller with an empty registry.
func New(opts Options) *Controller {
	size := opts.PageSize
	if size <= 0 {
		size = picker.DefaultPageSize
	}
	c := &Controller{
		subs:     subscription.NewRegistry(),
		acl:      access.New(opts.Superadmin, opts.Admins...),
		pageSize: size,
		onGrant:  opts.OnGrant,
	}
	c.specs = []CommandSpec{
		{Name: "start", Description: "Show available commands", Role: access.RoleNone, Hidden: true},
		{Name: "help", Description: "Show available commands", Role: access.RoleNone},
		{Name: "ad", Usage: "<remark> <url>", Description: "Add or replace a subscription", Role: access.RoleAdmin},
		{Name: "del", Usage: "<keyword>", Description: "Delete subscriptions matching a keyword", Role: access.RoleAdmin},
		{Name: "list", Description: "List subscriptions", Role: access.RoleAdmin},
		{Name: "convert", Description: "Pick subscriptions to combine", Role: access.RoleAdmin},
		{Name: "reset", Description: "Clear the picker selection", Role: access.RoleAdmin},
		{Name: "admin", Usage: "<telegram id>", Description: "Grant admin rights", Role: access.RoleSuperadmin},
	}
	c.handlers = map[string]commandFunc{
		"start":   c.help,
		"help":    c.help,
		"ad":      c.add,
		"del":     c.del,
		"list":    c.list,
		"convert": c.convert,
		"reset":   c.reset,
		"admin":   c.grant,
	}
	return c
}

// Commands returns the command table in display order.
func (c *Controller) Commands() []CommandSpec {
	out := make([]CommandSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// HandleCommand runs one command. Domain failures come back as a reply with Err set.
func (c *Controller) HandleCommand(ctx context.Context, cmd Command) Reply {
	name := strings.TrimPrefix(strings.ToLower(cmd.Name), "/")
	h, ok := c.handlers[name]
	if !ok {
		return failReply(notFound(msgUnknownCommand))
	}

	r := c.runLocked(ctx, name, h, cmd)
	if r.granted != 0 && c.onGrant != nil {
		c.onGrant(ctx, r.granted)
	}
	return r
}

func (c *Controller) runLocked(ctx context.Context, name string, h commandFunc, cmd Command) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	role := c.acl.Classify(cmd.CallerID)
	if cs := c.spec(name); !allowed(role, cs.Role) {
		logger.Info(ctx, "access", "access.denied",
			slog.String("status", "denied"),
			slog.String("command", name),
			slog.String("role", role.String()),
		)
		return failReply(permissionDenied(msgDenied))
	}
	return h(ctx, cmd, role)
}

// HandleCallback applies one picker button press.
func (c *Controller) HandleCallback(ctx context.Context, ev CallbackEvent) Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	role := c.acl.Classify(ev.CallerID)
	if !role.Privileged() {
		logger.Info(ctx, "access", "access.denied",
			slog.String("status", "denied"),
			slog.String("command", ev.Token.String()),
			slog.String("role", role.String()),
		)
		err := permissionDenied(msgCallbackDenied)
		return Reply{Kind: ReplyNone, Notice: err.Message, Alert: true, Err: err}
	}

	s := c.ensureSession(ctx)
	switch ev.Token.Kind {
	case picker.KindPrev, picker.KindNext:
		s.GoTo(ev.Token.Page)
		page := s.Render(c.subs)
		logger.Debug(ctx, "picker", "picker.page",
			slog.String("session_id", s.ID()),
			slog.Int("page", page.Index),
			slog.Int("total", page.Total),
		)
		return Reply{Kind: ReplyEditControls, Controls: page.Controls()}

	case picker.KindCommit:
		out := s.Commit(c.subs)
		logger.Info(ctx, "picker", "picker.combined",
			slog.String("session_id", s.ID()),
			slog.Int("selected", s.Count()),
			slog.Int("total", c.subs.Len()),
		)
		return Reply{Kind: ReplyEditText, Text: fmt.Sprintf(msgCombined, out)}

	case picker.KindToggle:
		selected, err := s.Toggle(c.subs, ev.Token.Remark)
		if err != nil {
			logger.Info(ctx, "picker", "picker.toggled",
				slog.String("status", "skip"),
				slog.String("session_id", s.ID()),
				slog.String("remark", logger.SanitizeLimit(ev.Token.Remark, 64)),
				slog.String("reason", "unknown_remark"),
			)
			nf := notFound(msgStale)
			return Reply{Kind: ReplyEditControls, Controls: s.Render(c.subs).Controls(), Notice: nf.Message, Err: nf}
		}
		logger.Info(ctx, "picker", "picker.toggled",
			slog.String("session_id", s.ID()),
			slog.String("remark", logger.SanitizeLimit(ev.Token.Remark, 64)),
			slog.Bool("selected", selected),
			slog.Int("page", s.Page()),
		)
		return Reply{Kind: ReplyEditControls, Controls: s.Render(c.subs).Controls()}

	default:
		return Reply{Kind: ReplyNone, Notice: msgTooLong}
	}
}

// Status reports registry, admin and session counters.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Subscriptions: c.subs.Len(),
		Admins:        len(c.acl.Admins()),
	}
	if c.session != nil {
		st.SessionID = c.session.ID()
		st.Selected = c.session.Count()
		st.Page = c.session.Page()
	}
	return st
}

// Superadmin returns the configured owner identity.
func (c *Controller) Superadmin() int64 {
	return c.acl.Superadmin()
}

func (c *Controller) spec(name string) CommandSpec {
	for _, s := range c.specs {
		if s.Name == name {
			return s
		}
	}
	return CommandSpec{Name: name, Role: access.RoleSuperadmin}
}

func allowed(role, need access.Role) bool {
	switch need {
	case access.RoleNone:
		return true
	case access.RoleAdmin:
		return role.Privileged()
	default:
		return role == access.RoleSuperadmin
	}
}

func (c *Controller) ensureSession(ctx context.Context) *picker.Session {
	if c.session == nil {
		c.session = picker.NewSession(c.pageSize)
		logger.Info(ctx, "picker", "picker.opened",
			slog.String("session_id", c.session.ID()),
			slog.Int("page_size", c.pageSize),
		)
	}
	return c.session
}

func (c *Controller) help(_ context.Context, _ Command, role access.Role) Reply {
	var b strings.Builder
	b.WriteString(msgHelpHeader)
	for _, s := range c.specs {
		if s.Hidden || !allowed(role, s.Role) {
			continue
		}
		b.WriteString("\n/")
		b.WriteString(s.Name)
		if s.Usage != "" {
			b.WriteString(" ")
			b.WriteString(s.Usage)
		}
		b.WriteString(" - ")
		b.WriteString(s.Description)
	}
	if role == access.RoleSuperadmin {
		ids := c.acl.Admins()
		list := make([]string, 0, len(ids))
		for _, id := range ids {
			list = append(list, strconv.FormatInt(id, 10))
		}
		if len(list) == 0 {
			list = append(list, "none")
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, msgHelpAdmins, strings.Join(list, ", "))
	}
	return textReply(b.String())
}

func (c *Controller) add(ctx context.Context, cmd Command, _ access.Role) Reply {
	if len(cmd.Args) < 2 {
		return failReply(usageError(usageAdd))
	}
	remark, url := cmd.Args[0], cmd.Args[1]
	replaced := c.subs.Add(remark, url)
	logger.Info(ctx, "subscriptions", "subscription.added",
		slog.String("remark", logger.SanitizeLimit(remark, 64)),
		slog.Bool("replaced", replaced),
		slog.Int("total", c.subs.Len()),
	)
	if replaced {
		return textReply(fmt.Sprintf(msgReplaced, remark, url))
	}
	return textReply(fmt.Sprintf(msgAdded, remark, url))
}

func (c *Controller) del(ctx context.Context, cmd Command, _ access.Role) Reply {
	if len(cmd.Args) == 0 || cmd.Args[0] == "" {
		return failReply(usageError(usageDel))
	}
	keyword := cmd.Args[0]
	removed := c.subs.RemoveMatching(keyword)
	logger.Info(ctx, "subscriptions", "subscription.removed",
		slog.String("keyword", logger.SanitizeLimit(keyword, 64)),
		slog.Int("removed", len(removed)),
		slog.Int("total", c.subs.Len()),
	)
	if len(removed) == 0 {
		msg := msgNotFound
		if hint, ok := c.subs.Closest(keyword); ok {
			msg += fmt.Sprintf(msgDidYouMean, hint)
		}
		return failReply(notFound(msg))
	}
	lines := make([]string, 0, len(removed))
	for _, e := range removed {
		lines = append(lines, fmt.Sprintf(msgDeleted, e.Remark, e.URL))
	}
	return textReply(strings.Join(lines, "\n"))
}

func (c *Controller) list(_ context.Context, _ Command, _ access.Role) Reply {
	entries := c.subs.List()
	if len(entries) == 0 {
		return textReply(msgEmpty)
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Remark+" -> "+e.URL)
	}
	return textReply(strings.Join(lines, "\n"))
}

func (c *Controller) grant(ctx context.Context, cmd Command, _ access.Role) Reply {
	if len(cmd.Args) == 0 {
		return failReply(usageError(usageAdmin))
	}
	target, err := strconv.ParseInt(cmd.Args[0], 10, 64)
	if err != nil || target == 0 {
		return failReply(usageError(usageAdmin))
	}
	added, err := c.acl.Grant(cmd.CallerID, target)
	if err != nil {
		return failReply(permissionDenied(msgDenied))
	}
	logger.Info(ctx, "access", "admin.granted",
		slog.Int64("target_id", target),
		slog.Bool("added", added),
	)
	if !added {
		return textReply(fmt.Sprintf(msgAdminExists, target))
	}
	r := textReply(fmt.Sprintf(msgAdminAdded, target))
	r.granted = target
	return r
}

func (c *Controller) convert(ctx context.Context, _ Command, _ access.Role) Reply {
	s := c.ensureSession(ctx)
	s.GoTo(0)
	page := s.Render(c.subs)
	logger.Info(ctx, "picker", "picker.page",
		slog.String("session_id", s.ID()),
		slog.Int("page", page.Index),
		slog.Int("selected", s.Count()),
		slog.Int("total", page.Total),
	)
	return Reply{Kind: ReplyTextWithControls, Text: msgPickerHeader, Controls: page.Controls()}
}

func (c *Controller) reset(ctx context.Context, _ Command, _ access.Role) Reply {
	s := c.ensureSession(ctx)
	cleared := s.Count()
	s.Reset()
	logger.Info(ctx, "picker", "picker.reset",
		slog.String("session_id", s.ID()),
		slog.Int("selected", cleared),
	)
	return textReply(msgReset)
}

package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/subbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		name string
		cmd  commands.Command
	}{
		{name: "", cmd: commands.Command{Handler: noop, Description: "d"}},
		{name: "list", cmd: commands.Command{Handler: noop, Description: "d"}},
		{name: "/list", cmd: commands.Command{Description: "d"}},
		{name: "/list", cmd: commands.Command{Handler: noop}},
	}
	for _, tc := range cases {
		if err := reg.RegisterCommand(tc.name, tc.cmd); !errors.Is(err, ErrInvalidRegistration) {
			t.Fatalf("RegisterCommand(%q) err = %v, want ErrInvalidRegistration", tc.name, err)
		}
	}
	if len(reg.Commands()) != 0 {
		t.Fatalf("invalid commands were stored: %v", reg.Commands())
	}
}

func TestRegisterCommandDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("/list", commands.Command{Handler: noop, Description: "d"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterCommand("/list", commands.Command{Handler: noop, Description: "other"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate err = %v, want ErrDuplicate", err)
	}
	if got := reg.Commands()["/list"].Description; got != "d" {
		t.Fatalf("duplicate overwrote command: %q", got)
	}
}

func TestListCommandsHidesPrivileged(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start"})
	_ = reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "help"})
	_ = reg.RegisterCommand("/ad", commands.Command{Handler: noop, Description: "add", AdminOnly: true})
	_ = reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "dbg", Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "/help" || visible[1].Text != "/start" {
		t.Fatalf("visible = %+v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("all = %d commands, want 3 without the hidden one", len(all))
	}
}

func TestLookupCommandAliases(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/convert", commands.Command{Handler: noop, Description: "c", Aliases: []string{"combine"}})

	for _, name := range []string{"convert", "/convert", "combine", "/combine"} {
		key, _, ok := reg.LookupCommand(name)
		if !ok || key != "/convert" {
			t.Fatalf("LookupCommand(%q) = %q, %v", name, key, ok)
		}
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("unexpected match for /missing")
	}
}

func TestRegisterCallback(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("pick_next", noop); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterCallback("pick_next", noop); err == nil {
		t.Fatal("duplicate callback should fail")
	}
	if err := reg.RegisterCallback("", noop); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("empty key err = %v", err)
	}
	_ = reg.RegisterCallback("pick_done", noop)
	if got := reg.ListCallbacks(); len(got) != 2 || got[0] != "pick_done" {
		t.Fatalf("ListCallbacks() = %v", got)
	}
	if _, ok := reg.GetCallback("pick_done"); !ok {
		t.Fatal("GetCallback(pick_done) missing")
	}
}

func TestRegisterCommandAliasCollision(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("/convert", commands.Command{Handler: noop, Description: "c", Aliases: []string{"combine"}}); err != nil {
		t.Fatal(err)
	}
	err := reg.RegisterCommand("/combine", commands.Command{Handler: noop, Description: "other"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("command shadowing an alias err = %v, want ErrDuplicate", err)
	}
	err = reg.RegisterCommand("/merge", commands.Command{Handler: noop, Description: "m", Aliases: []string{"/convert"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("alias shadowing a command err = %v, want ErrDuplicate", err)
	}
	if names := reg.CommandNames(); len(names) != 1 || names[0] != "/convert" {
		t.Fatalf("CommandNames() = %v", names)
	}
}

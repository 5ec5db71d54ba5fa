package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m3rciful/subbot/core/buildinfo"
	corecmd "github.com/m3rciful/subbot/core/cmd"
)

func TestVersionCommand(t *testing.T) {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != buildinfo.String() {
		t.Fatalf("version output = %q, want %q", got, buildinfo.String())
	}
}

func TestRunPassesConfigFlag(t *testing.T) {
	prev := runner
	t.Cleanup(func() { runner = prev })

	var got corecmd.Options
	runner = func(opts corecmd.Options) error {
		got = opts
		return nil
	}

	root := newRoot()
	root.SetArgs([]string{"run", "--config", "bot.yaml"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.ConfigPath != "bot.yaml" {
		t.Fatalf("config path = %q, want bot.yaml", got.ConfigPath)
	}
	if got.LoadConfig == nil || got.Bootstrap == nil {
		t.Fatal("runner hooks missing")
	}
}

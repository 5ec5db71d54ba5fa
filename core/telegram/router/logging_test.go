package router

import (
	"errors"
	"fmt"
	"testing"
)

type codedErr struct{ code string }

func (e *codedErr) Error() string { return "coded" }
func (e *codedErr) Code() string  { return e.code }

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "coder", err: &codedErr{code: "permission denied"}, want: "PERMISSION_DENIED"},
		{name: "wrapped coder", err: fmt.Errorf("ad: %w", &codedErr{code: "usage"}), want: "USAGE"},
		{name: "bot api", err: errors.New("telegram: chat not found (400)"), want: "TG_400"},
		{name: "plain", err: errors.New("x"), want: "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorCode(tc.err); got != tc.want {
				t.Fatalf("errorCode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	cases := map[string]string{
		"/Convert":    "convert",
		"  ":          "unknown",
		"pick toggle": "pick_toggle",
	}
	for in, want := range cases {
		if got := normalizeHandlerName(in); got != want {
			t.Fatalf("normalizeHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommandWord(t *testing.T) {
	cases := map[string]string{
		"/ad HK https://x":  "/ad",
		"/list@subbot_bot":  "/list",
		"/del@subbot_bot x": "/del",
		"hello":             "",
		"":                  "",
	}
	for in, want := range cases {
		if got := commandWord(in); got != want {
			t.Fatalf("commandWord(%q) = %q, want %q", in, got, want)
		}
	}
}

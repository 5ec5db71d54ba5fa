package picker

import (
	"testing"

	"github.com/m3rciful/subbot/internal/subscription"
)

func TestCombine(t *testing.T) {
	list := []subscription.Entry{
		{Remark: "A", URL: "u1"},
		{Remark: "B", URL: "u2"},
		{Remark: "C", URL: "u3"},
	}

	cases := []struct {
		name string
		sel  Set
		want string
	}{
		{name: "registry order", sel: Set{"B": {}, "A": {}}, want: "u1\nu2"},
		{name: "empty selection", sel: Set{}, want: ""},
		{name: "nil selection", sel: nil, want: ""},
		{name: "dangling skipped", sel: Set{"C": {}, "removed": {}}, want: "u3"},
		{name: "only dangling", sel: Set{"removed": {}}, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Combine(list, tc.sel); got != tc.want {
				t.Fatalf("Combine() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCombineAfterRemoval(t *testing.T) {
	reg := subscription.NewRegistry()
	reg.Add("A", "u1")
	reg.Add("B", "u2")
	sel := Set{"A": {}, "B": {}}

	reg.RemoveMatching("u1")
	if got := Combine(reg.List(), sel); got != "u2" {
		t.Fatalf("Combine() = %q, want u2", got)
	}
}

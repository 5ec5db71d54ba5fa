package picker

import (
	"errors"
	"reflect"
	"testing"

	"github.com/m3rciful/subbot/internal/subscription"
)

func seeded(pairs ...string) *subscription.Registry {
	r := subscription.NewRegistry()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Add(pairs[i], pairs[i+1])
	}
	return r
}

func TestNewSessionIsEmpty(t *testing.T) {
	s := NewSession(0)
	if s.Count() != 0 || s.Page() != 0 || s.PageSize() != DefaultPageSize {
		t.Fatalf("new session = count %d page %d size %d", s.Count(), s.Page(), s.PageSize())
	}
	if s.ID() == "" || s.ID() == NewSession(0).ID() {
		t.Fatal("session ids must be unique and non-empty")
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	reg := seeded("A", "u1", "B", "u2")
	s := NewSession(DefaultPageSize)
	if _, err := s.Toggle(reg, "B"); err != nil {
		t.Fatal(err)
	}
	before := s.Selected()

	for _, r := range []string{"A", "B"} {
		if _, err := s.Toggle(reg, r); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Toggle(reg, r); err != nil {
			t.Fatal(err)
		}
		if got := s.Selected(); !reflect.DeepEqual(got, before) {
			t.Fatalf("double toggle of %s: %v, want %v", r, got, before)
		}
	}
}

func TestToggleMovesToItemPage(t *testing.T) {
	reg := subscription.NewRegistry()
	for _, e := range entries(12) {
		reg.Add(e.Remark, e.URL)
	}
	s := NewSession(DefaultPageSize)
	s.GoTo(0)

	selected, err := s.Toggle(reg, "node-11")
	if err != nil || !selected {
		t.Fatalf("Toggle = %v, %v", selected, err)
	}
	if s.Page() != 2 {
		t.Fatalf("Page() = %d, want 2", s.Page())
	}

	// the registry shifted under the picker: node-6 now lives on page 0
	reg.RemoveMatching("node-1")
	reg.RemoveMatching("node-2")
	reg.RemoveMatching("node-3")
	s.GoTo(1)
	if _, err := s.Toggle(reg, "node-6"); err != nil {
		t.Fatal(err)
	}
	if s.Page() != 0 {
		t.Fatalf("Page() = %d, want 0 after registry shift", s.Page())
	}
	page := s.Render(reg)
	// node-1 also matched node-10 and node-11: page 0 is node-0,4,5,6,7
	if !page.Items[3].Selected || page.Items[3].Remark != "node-6" {
		t.Fatalf("rendered items = %+v", page.Items)
	}
}

func TestToggleUnknownRemark(t *testing.T) {
	reg := seeded("A", "u1")
	s := NewSession(DefaultPageSize)
	if _, err := s.Toggle(reg, "A"); err != nil {
		t.Fatal(err)
	}
	s.GoTo(3)

	if _, err := s.Toggle(reg, "ghost"); !errors.Is(err, ErrUnknownRemark) {
		t.Fatalf("err = %v, want ErrUnknownRemark", err)
	}
	if s.IsSelected("ghost") || s.Page() != 3 {
		t.Fatalf("unknown toggle changed state: selected=%v page=%d", s.IsSelected("ghost"), s.Page())
	}

	reg.RemoveMatching("A")
	if _, err := s.Toggle(reg, "A"); !errors.Is(err, ErrUnknownRemark) {
		t.Fatalf("err = %v, want ErrUnknownRemark", err)
	}
	if !s.IsSelected("A") {
		t.Fatal("toggling a removed remark must leave its selection alone")
	}
	if got := s.Commit(reg); got != "" {
		t.Fatalf("Commit with dangling selection = %q, want empty", got)
	}

	reg.Add("A", "u2")
	if got := s.Commit(reg); got != "u2" {
		t.Fatalf("Commit after re-adding A = %q, want u2", got)
	}
}

func TestCommitKeepsSelection(t *testing.T) {
	reg := seeded("A", "u1", "B", "u2", "C", "u3")
	s := NewSession(DefaultPageSize)
	for _, r := range []string{"B", "A"} {
		if _, err := s.Toggle(reg, r); err != nil {
			t.Fatal(err)
		}
	}

	if got := s.Commit(reg); got != "u1\nu2" {
		t.Fatalf("Commit() = %q, want %q", got, "u1\nu2")
	}
	if got := s.Commit(reg); got != "u1\nu2" {
		t.Fatalf("repeat Commit() = %q", got)
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d after commit, want 2", s.Count())
	}

	s.Reset()
	if s.Count() != 0 || s.Page() != 0 || s.Commit(reg) != "" {
		t.Fatal("Reset should clear selection and page")
	}
}

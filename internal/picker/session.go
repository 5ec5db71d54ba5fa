// Package picker implements the paged subscription picker: the shared
// selection session, its page rendering, and the combine step.
//
// A Session is one global selection shared by every admin. It is created
// lazily, survives commits, and only an explicit Reset clears it. Remarks
// may disappear from the registry while selected; such dangling selections
// are tolerated and skipped when combining.
package picker

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/m3rciful/subbot/internal/subscription"
)

// ErrUnknownRemark is returned when toggling a remark absent from the registry.
var ErrUnknownRemark = errors.New("picker: remark not in registry")

// Source is the registry view read by the picker.
type Source interface {
	List() []subscription.Entry
	IndexOf(remark string) int
}

// Session tracks the selected remarks and the current page.
// It is not safe for concurrent use; the owner serializes access.
type Session struct {
	id       string
	pageSize int
	selected Set
	page     int
}

// NewSession returns an empty session at page 0.
func NewSession(pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{
		id:       uuid.NewString(),
		pageSize: pageSize,
		selected: make(Set),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Page returns the current page index.
func (s *Session) Page() int { return s.page }

// PageSize returns the number of items per page.
func (s *Session) PageSize() int { return s.pageSize }

// Count returns the number of selected remarks, dangling ones included.
func (s *Session) Count() int { return len(s.selected) }

// IsSelected reports whether remark is selected.
func (s *Session) IsSelected(remark string) bool { return s.selected.Has(remark) }

// Selected returns the selected remarks sorted for stable output.
func (s *Session) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for r := range s.selected {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Toggle flips remark and moves to the page the remark lives on.
// If remark is no longer in src, nothing changes and ErrUnknownRemark is
// returned; a dangling selection stays until Reset and Commit skips it.
func (s *Session) Toggle(src Source, remark string) (bool, error) {
	idx := src.IndexOf(remark)
	if idx < 0 {
		return false, ErrUnknownRemark
	}
	selected := !s.selected.Has(remark)
	if selected {
		s.selected[remark] = struct{}{}
	} else {
		delete(s.selected, remark)
	}
	s.page = idx / s.pageSize
	return selected, nil
}

// GoTo sets the current page.
func (s *Session) GoTo(page int) {
	s.page = page
}

// Reset clears the selection and returns to page 0.
func (s *Session) Reset() {
	s.selected = make(Set)
	s.page = 0
}

// Render renders the current page of src.
func (s *Session) Render(src Source) Page {
	return Render(src.List(), s.selected, s.page, s.pageSize)
}

// Commit combines the current selection against src. The selection is kept.
func (s *Session) Commit(src Source) string {
	return Combine(src.List(), s.selected)
}

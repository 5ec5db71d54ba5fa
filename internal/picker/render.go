package picker

import "github.com/m3rciful/subbot/internal/subscription"

// DefaultPageSize is the number of subscriptions shown per picker page.
const DefaultPageSize = 5

// Button labels.
const (
	SelectedMarker = "√ "
	LabelPrev      = "« Previous page"
	LabelNext      = "Next page »"
	LabelCommit    = "Done, combine selected"
)

// Set is a set of remarks.
type Set map[string]struct{}

// Has reports whether remark is in the set.
func (s Set) Has(remark string) bool {
	_, ok := s[remark]
	return ok
}

// Item is one rendered subscription row.
type Item struct {
	subscription.Entry
	Selected bool
}

// Label is the button text for the item.
func (it Item) Label() string {
	label := it.Remark + " -> " + it.URL
	if it.Selected {
		return SelectedMarker + label
	}
	return label
}

// Page is the renderable view of one slice of the registry.
type Page struct {
	Index   int
	Size    int
	Total   int
	Items   []Item
	HasPrev bool
	HasNext bool
}

// Control is a single inline button.
type Control struct {
	Label string
	Token Token
}

// Row is one line of inline buttons.
type Row []Control

// Render slices entries into page index using size items per page and marks
// selected remarks. Out-of-range pages yield no items. Render has no side effects.
func Render(entries []subscription.Entry, selected Set, index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Page{
		Index:   index,
		Size:    size,
		Total:   len(entries),
		HasPrev: index > 0,
	}
	// bound index before multiplying so huge pages cannot overflow
	if index < -1 || index > len(entries) {
		return p
	}
	p.HasNext = (index+1)*size < len(entries)
	if index < 0 {
		return p
	}
	start := index * size
	if start >= len(entries) {
		return p
	}
	end := start + size
	if end > len(entries) {
		end = len(entries)
	}
	p.Items = make([]Item, 0, end-start)
	for _, e := range entries[start:end] {
		p.Items = append(p.Items, Item{Entry: e, Selected: selected.Has(e.Remark)})
	}
	return p
}

// Controls lays the page out as button rows: one row per item, then the
// previous and next rows when available, then the finish row.
func (p Page) Controls() []Row {
	rows := make([]Row, 0, len(p.Items)+3)
	for _, it := range p.Items {
		tok := Toggle(it.Remark)
		if !tok.Fits() {
			tok = Token{Kind: KindNoop}
		}
		rows = append(rows, Row{{Label: it.Label(), Token: tok}})
	}
	if p.HasPrev {
		rows = append(rows, Row{{Label: LabelPrev, Token: Prev(p.Index - 1)}})
	}
	if p.HasNext {
		rows = append(rows, Row{{Label: LabelNext, Token: Next(p.Index + 1)}})
	}
	rows = append(rows, Row{{Label: LabelCommit, Token: Commit()}})
	return rows
}

// Pages reports how many pages the registry spans, at least one.
func (p Page) Pages() int {
	if p.Total == 0 || p.Size <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

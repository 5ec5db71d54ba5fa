// Package subscription keeps the named set of subscription URLs managed by admins.
package subscription

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Entry pairs a remark with the subscription URL it names.
type Entry struct {
	Remark string
	URL    string
}

// Registry is an insertion-ordered remark -> URL mapping.
// It is not safe for concurrent use; the owner serializes access.
type Registry struct {
	order []string
	urls  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{urls: make(map[string]string)}
}

// Add inserts the entry or overwrites the URL of an existing remark.
// An overwritten remark keeps its original position. It reports whether
// an existing entry was replaced.
func (r *Registry) Add(remark, url string) bool {
	if _, exists := r.urls[remark]; exists {
		r.urls[remark] = url
		return true
	}
	r.urls[remark] = url
	r.order = append(r.order, remark)
	return false
}

// RemoveMatching deletes every entry whose remark or URL contains keyword
// as a literal, case-sensitive substring and returns the removed entries
// in registry order. An empty keyword matches nothing.
func (r *Registry) RemoveMatching(keyword string) []Entry {
	if keyword == "" {
		return nil
	}
	var removed []Entry
	kept := r.order[:0]
	for _, remark := range r.order {
		url := r.urls[remark]
		if strings.Contains(remark, keyword) || strings.Contains(url, keyword) {
			removed = append(removed, Entry{Remark: remark, URL: url})
			delete(r.urls, remark)
			continue
		}
		kept = append(kept, remark)
	}
	// clear the tail so dropped remarks are not retained by the backing array
	for i := len(kept); i < len(r.order); i++ {
		r.order[i] = ""
	}
	r.order = kept
	return removed
}

// List returns a copy of all entries in insertion order.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, remark := range r.order {
		out = append(out, Entry{Remark: remark, URL: r.urls[remark]})
	}
	return out
}

// Get returns the URL stored under remark.
func (r *Registry) Get(remark string) (string, bool) {
	url, ok := r.urls[remark]
	return url, ok
}

// IndexOf returns the position of remark in insertion order or -1.
func (r *Registry) IndexOf(remark string) int {
	if _, ok := r.urls[remark]; !ok {
		return -1
	}
	for i, v := range r.order {
		if v == remark {
			return i
		}
	}
	return -1
}

// Len reports the number of entries.
func (r *Registry) Len() int {
	return len(r.order)
}

// Closest returns the remark with the smallest edit distance to keyword.
// Only candidates within half the keyword length are considered; ties keep
// the earlier entry.
func (r *Registry) Closest(keyword string) (string, bool) {
	limit := utf8.RuneCountInString(keyword) / 2
	if limit == 0 {
		return "", false
	}
	best, bestDist := "", limit+1
	for _, remark := range r.order {
		d := levenshtein.ComputeDistance(keyword, remark)
		if d < bestDist {
			best, bestDist = remark, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

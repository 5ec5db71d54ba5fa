package picker

import (
	"strings"

	"github.com/m3rciful/subbot/internal/subscription"
)

// Combine joins with newlines the URLs of every selected remark still present
// in entries, in registry order. Selected remarks missing from entries are skipped.
func Combine(entries []subscription.Entry, selected Set) string {
	urls := make([]string, 0, len(selected))
	for _, e := range entries {
		if selected.Has(e.Remark) {
			urls = append(urls, e.URL)
		}
	}
	return strings.Join(urls, "\n")
}

package picker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadToken is returned for callback data the picker did not produce.
var ErrBadToken = errors.New("picker: malformed callback token")

// Kind tags the intent carried by a picker button.
type Kind int

const (
	// KindPrev moves to an earlier page.
	KindPrev Kind = iota + 1
	// KindNext moves to a later page.
	KindNext
	// KindCommit combines the current selection.
	KindCommit
	// KindToggle flips the selection of one remark.
	KindToggle
	// KindNoop marks a button that cannot carry its remark.
	KindNoop
)

// Callback uniques understood by the picker.
const (
	UniquePrev   = "pick_prev"
	UniqueNext   = "pick_next"
	UniqueCommit = "pick_done"
	UniqueToggle = "pick_toggle"
	UniqueNoop   = "pick_noop"
)

// MaxCallbackData is the Telegram limit for inline button callback data in bytes.
const MaxCallbackData = 64

// Uniques lists every callback unique the picker answers to.
func Uniques() []string {
	return []string{UniquePrev, UniqueNext, UniqueCommit, UniqueToggle, UniqueNoop}
}

// Token is the parsed form of a picker button press.
type Token struct {
	Kind   Kind
	Page   int
	Remark string
}

// Prev builds a navigation token to page n.
func Prev(n int) Token { return Token{Kind: KindPrev, Page: n} }

// Next builds a navigation token to page n.
func Next(n int) Token { return Token{Kind: KindNext, Page: n} }

// Commit builds the finish-selection token.
func Commit() Token { return Token{Kind: KindCommit} }

// Toggle builds a selection token for remark.
func Toggle(remark string) Token { return Token{Kind: KindToggle, Remark: remark} }

// Encode returns the callback unique and payload for the token.
func (t Token) Encode() (unique, payload string) {
	switch t.Kind {
	case KindPrev:
		return UniquePrev, strconv.Itoa(t.Page)
	case KindNext:
		return UniqueNext, strconv.Itoa(t.Page)
	case KindCommit:
		return UniqueCommit, ""
	case KindToggle:
		return UniqueToggle, t.Remark
	default:
		return UniqueNoop, ""
	}
}

// Data returns the raw callback data as sent to Telegram: \f<unique>[|<payload>].
func (t Token) Data() string {
	unique, payload := t.Encode()
	if payload == "" {
		return "\f" + unique
	}
	return "\f" + unique + "|" + payload
}

// Fits reports whether the encoded token is within the Telegram callback limit.
func (t Token) Fits() bool {
	return len(t.Data()) <= MaxCallbackData
}

// IsNav reports whether the token moves between pages.
func (t Token) IsNav() bool {
	return t.Kind == KindPrev || t.Kind == KindNext
}

func (t Token) String() string {
	switch t.Kind {
	case KindPrev:
		return fmt.Sprintf("prev(%d)", t.Page)
	case KindNext:
		return fmt.Sprintf("next(%d)", t.Page)
	case KindCommit:
		return "commit"
	case KindToggle:
		return fmt.Sprintf("toggle(%q)", t.Remark)
	case KindNoop:
		return "noop"
	}
	return "invalid"
}

// Parse decodes a callback unique and payload into a Token.
func Parse(unique, payload string) (Token, error) {
	switch unique {
	case UniquePrev, UniqueNext:
		n, err := strconv.Atoi(strings.TrimSpace(payload))
		if err != nil || n < 0 {
			return Token{}, fmt.Errorf("%w: page %q", ErrBadToken, payload)
		}
		if unique == UniquePrev {
			return Prev(n), nil
		}
		return Next(n), nil
	case UniqueCommit:
		return Commit(), nil
	case UniqueToggle:
		if payload == "" {
			return Token{}, fmt.Errorf("%w: empty remark", ErrBadToken)
		}
		return Toggle(payload), nil
	case UniqueNoop:
		return Token{Kind: KindNoop}, nil
	}
	return Token{}, fmt.Errorf("%w: unique %q", ErrBadToken, unique)
}

// ParseData decodes raw callback data of the form \f<unique>[|<payload>].
func ParseData(data string) (Token, error) {
	raw, ok := strings.CutPrefix(data, "\f")
	if !ok {
		return Token{}, fmt.Errorf("%w: missing unique marker", ErrBadToken)
	}
	unique, payload, _ := strings.Cut(raw, "|")
	return Parse(unique, payload)
}

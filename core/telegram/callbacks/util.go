// Package callbacks reads the unique and payload out of telebot callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Telebot encodes a button press as "\f<unique>|<payload>".
const (
	uniqueMarker = '\f'
	separator    = "|"
)

// ParseCallbackData splits cb.Data into unique and payload. The payload is
// everything after the first separator and may contain further separators.
func ParseCallbackData(cb *tele.Callback) (unique, payload string) {
	if cb == nil {
		return "", ""
	}
	data := cb.Data
	if data != "" && data[0] == uniqueMarker {
		data = data[1:]
	}
	unique, payload, _ = strings.Cut(data, separator)
	return strings.TrimSpace(unique), payload
}

// CallbackKey is the unique of the pressed button, or "" outside a callback.
func CallbackKey(c tele.Context) string {
	unique, _ := split(c.Callback())
	return unique
}

// CallbackPayload is the payload of the pressed button.
func CallbackPayload(c tele.Context) string {
	_, payload := split(c.Callback())
	return payload
}

// split prefers the fields telebot fills in when it routed the press to a
// dedicated endpoint; there Data already holds only the payload.
func split(cb *tele.Callback) (string, string) {
	if cb != nil && cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return ParseCallbackData(cb)
}

// Package keyboard assembles inline keyboards from plain button values.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is one inline button. Unique routes the press to a callback
// endpoint and Data is handed to it as the payload.
type Button struct {
	Text   string
	Unique string
	Data   string
}

// Inline accumulates rows of buttons. The zero value is ready to use.
type Inline struct {
	rows [][]Button
}

// Row appends a row. Calls with no buttons are ignored.
func (k *Inline) Row(btns ...Button) *Inline {
	if len(btns) > 0 {
		k.rows = append(k.rows, btns)
	}
	return k
}

// Len reports the number of rows added so far.
func (k *Inline) Len() int { return len(k.rows) }

// Markup renders the rows as a telebot reply markup.
func (k *Inline) Markup() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{InlineKeyboard: make([][]tele.InlineButton, 0, len(k.rows))}
	for _, row := range k.rows {
		line := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			line = append(line, *m.Data(b.Text, b.Unique, b.Data).Inline())
		}
		m.InlineKeyboard = append(m.InlineKeyboard, line)
	}
	return m
}

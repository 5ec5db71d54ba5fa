package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// Usage is shown by /help; empty means the bare command name.
	Usage string
	// AdminOnly keeps the command out of the public menu. It does not
	// authorize anything; handlers check the caller themselves.
	AdminOnly bool
	Hidden    bool
	Aliases   []string
}

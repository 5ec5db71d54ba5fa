package bot

// User-facing reply texts.
const (
	msgDenied         = "You do not have permission to use this command."
	msgCallbackDenied = "You do not have permission to do that."
	msgUnknownCommand = "Unknown command. Send /help for the list of commands."

	usageAdd   = "Usage: /ad <remark> <url>"
	usageDel   = "Usage: /del <keyword>"
	usageAdmin = "Usage: /admin <telegram id>"

	msgAdded       = "Added subscription: %s -> %s"
	msgReplaced    = "Replaced subscription: %s -> %s"
	msgDeleted     = "Deleted subscription: %s -> %s"
	msgNotFound    = "No matching subscription found."
	msgDidYouMean  = "\nDid you mean: %s?"
	msgEmpty       = "No subscriptions."
	msgAdminAdded  = "Added admin: %d"
	msgAdminExists = "Already an admin: %d"

	msgPickerHeader = "Select subscriptions to combine:"
	msgCombined     = "Combined subscriptions:\n%s"
	msgReset        = "Selection cleared."
	msgStale        = "That subscription no longer exists."
	msgTooLong      = "This remark is too long to select from the picker."

	msgHelpHeader = "Commands:"
	msgHelpAdmins = "Admins: %s"
)

// Texts used outside the controller.
const (
	// MsgStarted is sent to the superadmin once the bot is up.
	MsgStarted = "Bot started."
	// MsgBadToken answers a button press the bot cannot decode.
	MsgBadToken = "Unsupported action."
	// MsgUnknownText answers free text that is not a command.
	MsgUnknownText = "I only understand commands. Send /help for the list."
	// MsgUnknownDocument answers an uploaded file.
	MsgUnknownDocument = "Files are not supported. Send /help for the list of commands."
)

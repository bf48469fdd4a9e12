package output

import "context"

// Button is one inline button; Action is the callback payload routed back
// through the update union.
type Button struct {
	Label  string
	Action string
}

// Chat is the outbound side of the transport adapter: plain replies,
// in-place edits of the bot's previous message, and callback toasts.
type Chat interface {
	Reply(ctx context.Context, chatID int64, text string, rows ...[]Button) error
	EditLast(ctx context.Context, chatID int64, text string, rows ...[]Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

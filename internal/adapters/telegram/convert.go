package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"clubbot/internal/scene"
)

// convert maps one Telegram update onto the engine's update union. The
// second return is false for update types the bot does not handle
// (inline queries, channel posts and so on).
func convert(upd tgbotapi.Update) (scene.Update, bool) {
	switch {
	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if cb.From == nil || cb.Message == nil {
			return scene.Update{}, false
		}
		return scene.Update{
			User:       userOf(cb.From, cb.Message.Chat.ID),
			Kind:       scene.KindCallback,
			Action:     cb.Data,
			CallbackID: cb.ID,
		}, true

	case upd.Message != nil:
		msg := upd.Message
		if msg.From == nil {
			return scene.Update{}, false
		}
		u := userOf(msg.From, msg.Chat.ID)
		if msg.IsCommand() {
			return scene.Update{
				User:    u,
				Kind:    scene.KindCommand,
				Command: msg.Command(),
				Args:    msg.CommandArguments(),
			}, true
		}
		if msg.Text != "" {
			return scene.Update{User: u, Kind: scene.KindText, Text: msg.Text}, true
		}
	}
	return scene.Update{}, false
}

func userOf(from *tgbotapi.User, chatID int64) scene.User {
	return scene.User{
		ID:        from.ID,
		ChatID:    chatID,
		Locale:    from.LanguageCode,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		Username:  from.UserName,
	}
}

package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"clubbot/internal/ports/output"
)

var _ output.Chat = (*Sender)(nil)

// Sender is the outbound half of the adapter. It remembers the id of the
// last message it sent per chat so EditLast can rewrite menus in place.
type Sender struct {
	api *tgbotapi.BotAPI

	mu      sync.Mutex
	lastMsg map[int64]int
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api, lastMsg: make(map[int64]int)}
}

func (s *Sender) Reply(ctx context.Context, chatID int64, text string, rows ...[]output.Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb, ok := keyboard(rows); ok {
		msg.ReplyMarkup = kb
	}
	sent, err := s.api.Send(msg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lastMsg[chatID] = sent.MessageID
	s.mu.Unlock()
	return nil
}

func (s *Sender) EditLast(ctx context.Context, chatID int64, text string, rows ...[]output.Button) error {
	s.mu.Lock()
	msgID, ok := s.lastMsg[chatID]
	s.mu.Unlock()
	if !ok {
		return s.Reply(ctx, chatID, text, rows...)
	}

	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	if kb, haveKB := keyboard(rows); haveKB {
		edit.ReplyMarkup = &kb
	}
	_, err := s.api.Send(edit)
	return err
}

func (s *Sender) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := s.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func keyboard(rows [][]output.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		var kbRow []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action))
		}
		kbRows = append(kbRows, kbRow)
	}
	if len(kbRows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}

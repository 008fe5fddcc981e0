package handlers

import (
	"context"

	"maiq/internal/domain/timetable"
	"maiq/internal/keyboard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callback обрабатывает нажатия inline-кнопок: заменяет текст сообщения с кнопками
func (h *Handlers) Callback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	cb, err := keyboard.ParseCallback(query.Data)
	if err != nil {
		h.logger.Warn("Unknown callback query", zap.String("data", query.Data), zap.Error(err))
		return h.botAPI.AnswerCallback(query.ID, "Кнопка устарела")
	}

	var (
		text   string
		markup *tgbotapi.InlineKeyboardMarkup
	)

	switch cb.Action {
	case keyboard.ActionSubscribe:
		text, err = h.subscribe(ctx, query.Message.Chat.ID, cb.Args[0])
		if err != nil {
			return err
		}
		days := h.Keyboard.Days(cb.Args[0])
		markup = &days

	case keyboard.ActionDefaults:
		weekday, err := cb.Weekday()
		if err != nil {
			return h.botAPI.AnswerCallback(query.ID, "Кнопка устарела")
		}
		text = h.defaultsText(weekday, cb.Args[1])
		days := h.Keyboard.Weekdays(cb.Args[1])
		markup = &days

	case keyboard.ActionDay:
		mode, err := timetable.ParseFetchMode(cb.Args[0])
		if err != nil {
			return h.botAPI.AnswerCallback(query.ID, "Кнопка устарела")
		}
		if text, err = h.dayText(ctx, mode, cb.Args[1]); err != nil {
			return err
		}
		days := h.Keyboard.Days(cb.Args[1])
		markup = &days
	}

	if err := h.botAPI.AnswerCallback(query.ID, ""); err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}
	return h.botAPI.EditHTML(query.Message.Chat.ID, query.Message.MessageID, text, markup)
}

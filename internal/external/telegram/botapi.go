package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramBotAPI реализует BotAPI поверх tgbotapi.BotAPI
type TelegramBotAPI struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

var _ BotAPI = (*TelegramBotAPI)(nil)

// NewTelegramBotAPI создает обертку над клиентом Telegram
func NewTelegramBotAPI(api *tgbotapi.BotAPI, logger *zap.Logger) *TelegramBotAPI {
	return &TelegramBotAPI{
		api:    api,
		logger: logger,
	}
}

// SendHTML отправляет сообщение
func (t *TelegramBotAPI) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendHTMLWithKeyboard отправляет сообщение с inline-клавиатурой
func (t *TelegramBotAPI) SendHTMLWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = keyboard

	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send message with keyboard", zap.Int64("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("failed to send message with keyboard: %w", err)
	}
	return nil
}

// EditHTML заменяет текст и клавиатуру сообщения
func (t *TelegramBotAPI) EditHTML(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard

	if _, err := t.api.Send(edit); err != nil {
		// повторное нажатие той же кнопки
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		t.logger.Error("Failed to edit message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// AnswerCallback отвечает на нажатие кнопки
func (t *TelegramBotAPI) AnswerCallback(callbackID, text string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// SendDocument отправляет файл
func (t *TelegramBotAPI) SendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML

	if _, err := t.api.Send(doc); err != nil {
		t.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("name", name),
			zap.Error(err))
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

// SetBotCommands задает меню команд бота
func (t *TelegramBotAPI) SetBotCommands(commands []tgbotapi.BotCommand) error {
	if _, err := t.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		t.logger.Error("Failed to set bot commands", zap.Error(err))
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

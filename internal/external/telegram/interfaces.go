package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotAPI определяет операции бота, которыми пользуются обработчики.
// Все тексты отправляются в разметке HTML.
type BotAPI interface {
	SendHTML(chatID int64, text string) error
	SendHTMLWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	EditHTML(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID, text string) error
	SendDocument(chatID int64, name string, data []byte, caption string) error
	SetBotCommands(commands []tgbotapi.BotCommand) error
}

// RouterInterface определяет интерфейс для роутера
type RouterInterface interface {
	HandleUpdate(update tgbotapi.Update)
	RegisterBotCommands() []tgbotapi.BotCommand
}

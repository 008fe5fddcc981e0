// Package telegram содержит интеграцию с Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ErrUpdatesClosed - канал обновлений закрылся, цикл нужно перезапустить
var ErrUpdatesClosed = errors.New("update channel closed")

// Client представляет клиент Telegram Bot API
type Client struct {
	bot    *tgbotapi.BotAPI
	botAPI *TelegramBotAPI
	logger *zap.Logger
}

// NewClient создает новый клиент Telegram
func NewClient(botToken string, logger *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false
	logger.Info("Telegram bot created", zap.String("username", bot.Self.UserName))

	return &Client{
		bot:    bot,
		botAPI: NewTelegramBotAPI(bot, logger),
		logger: logger,
	}, nil
}

// Start запускает long polling и передает обновления роутеру.
// Возвращает ctx.Err() при отмене или ErrUpdatesClosed, если Telegram закрыл канал.
func (c *Client) Start(ctx context.Context, router RouterInterface) error {
	c.logger.Info("Bot started", zap.String("username", c.bot.Self.UserName))

	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	if err := c.botAPI.SetBotCommands(router.RegisterBotCommands()); err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}

	c.logger.Info("Starting to fetch updates")
	updates := c.bot.GetUpdatesChan(u)
	defer c.bot.StopReceivingUpdates()

	const reconnectDelay = 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Update loop cancelled by context")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.logger.Warn("Update channel closed, will try to reconnect after delay")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectDelay):
					return ErrUpdatesClosed
				}
			}
			c.processUpdate(update, router)
		}
	}
}

// processUpdate отбрасывает обновления, которые бот не обрабатывает
func (c *Client) processUpdate(update tgbotapi.Update, router RouterInterface) {
	switch {
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message == nil {
			return
		}
	case update.Message != nil:
		if !update.Message.IsCommand() {
			return
		}
	default:
		return
	}

	c.logger.Debug("Processing update",
		zap.Int("update_id", update.UpdateID),
		zap.Int64("user_id", UserID(update)),
		zap.String("command", Command(update)))

	router.HandleUpdate(update)
}

// GetBotAPI возвращает BotAPI интерфейс
func (c *Client) GetBotAPI() BotAPI {
	return c.botAPI
}

// Username возвращает имя бота
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// UserID извлекает ID пользователя из обновления
func UserID(update tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return update.CallbackQuery.From.ID
	}
	return 0
}

// ChatID извлекает ID чата из обновления
func ChatID(update tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

// Command возвращает команду сообщения или данные нажатой кнопки
func Command(update tgbotapi.Update) string {
	if update.Message != nil && update.Message.IsCommand() {
		return update.Message.Command()
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.Data
	}
	return ""
}

// UserIdentifier возвращает идентификатор пользователя для логов
func UserIdentifier(user *tgbotapi.User) string {
	if user == nil {
		return "unknown"
	}

	if user.UserName != "" {
		return "@" + user.UserName
	}

	if user.FirstName != "" {
		if user.LastName != "" {
			return user.FirstName + " " + user.LastName
		}
		return user.FirstName
	}

	return fmt.Sprintf("user_%d", user.ID)
}

// From возвращает автора обновления
func From(update tgbotapi.Update) *tgbotapi.User {
	if update.Message != nil {
		return update.Message.From
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From
	}
	return nil
}

package middleware

import (
	"maiq/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const accessDeniedReply = "🔒 Эта команда доступна только администратору"

// AdminChecker проверяет права администратора по имени пользователя
type AdminChecker interface {
	IsAdmin(username string) bool
}

// AdminOnly ограничивает доступ только администраторам
func AdminOnly(checker AdminChecker, replier Replier, logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next HandlerFunc) error {
		user := telegram.From(update)
		if user != nil && user.UserName != "" && checker.IsAdmin(user.UserName) {
			return next(update)
		}

		logger.Warn("Unauthorized access attempt",
			zap.String("command", telegram.Command(update)),
			zap.String("user", telegram.UserIdentifier(user)))

		if chatID := telegram.ChatID(update); chatID != 0 && replier != nil {
			if err := replier.SendHTML(chatID, accessDeniedReply); err != nil {
				logger.Error("Failed to send access denied message", zap.Error(err))
			}
		}
		return nil
	}
}

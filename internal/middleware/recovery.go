package middleware

import (
	"fmt"
	"runtime/debug"

	"maiq/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const panicReply = "❌ Произошла ошибка. Попробуйте позже."

// Recovery перехватывает панику обработчика, сообщает пользователю и возвращает ее как ошибку
func Recovery(replier Replier, logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next HandlerFunc) (err error) {
		defer func() {
			panicErr := recover()
			if panicErr == nil {
				return
			}

			chatID := telegram.ChatID(update)
			logger.Error("Panic recovered",
				zap.String("command", telegram.Command(update)),
				zap.Int64("chat_id", chatID),
				zap.String("user", telegram.UserIdentifier(telegram.From(update))),
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", panicErr),
				zap.String("stack", string(debug.Stack())))

			if chatID != 0 && replier != nil {
				if sendErr := replier.SendHTML(chatID, panicReply); sendErr != nil {
					logger.Error("Failed to send panic message", zap.Error(sendErr))
				}
			}
			err = fmt.Errorf("panic in handler: %v", panicErr)
		}()

		return next(update)
	}
}

package middleware

import (
	"fmt"
	"time"

	"maiq/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Logging логирует начало и завершение обработки команды или нажатия кнопки
func Logging(logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next HandlerFunc) error {
		start := time.Now()
		requestID := fmt.Sprintf("%d-%d", update.UpdateID, start.UnixNano())
		command := telegram.Command(update)

		logger.Info("Processing update",
			zap.String("request_id", requestID),
			zap.String("command", command),
			zap.Int64("user_id", telegram.UserID(update)),
			zap.Int64("chat_id", telegram.ChatID(update)),
			zap.String("user", telegram.UserIdentifier(telegram.From(update))),
			zap.Int("update_id", update.UpdateID))

		err := next(update)

		duration := time.Since(start)
		if err != nil {
			logger.Error("Update completed with error",
				zap.String("request_id", requestID),
				zap.String("command", command),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Info("Update completed successfully",
				zap.String("request_id", requestID),
				zap.String("command", command),
				zap.Duration("duration", duration))
		}

		return err
	}
}

// Package app собирает компоненты бота и управляет его жизненным циклом.
package app

import (
	"context"
	"errors"
	"strings"

	"maiq/internal/external/telegram"
	"maiq/internal/handlers"
	"maiq/internal/middleware"
	"maiq/internal/service"
	"maiq/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type commandFunc func(ctx context.Context, message *tgbotapi.Message) error

// Router направляет обновления Telegram в обработчики через пул воркеров
type Router struct {
	handlers   *handlers.Handlers
	middleware *middleware.Middleware
	jobs       service.JobSubmitter
	logger     *zap.Logger

	commands map[string]commandFunc
	admin    map[string]commandFunc
}

// NewRouter создает новый роутер
func NewRouter(h *handlers.Handlers, mw *middleware.Middleware, jobs service.JobSubmitter, logger *zap.Logger) *Router {
	return &Router{
		handlers:   h,
		middleware: mw,
		jobs:       jobs,
		logger:     logger,
		commands: map[string]commandFunc{
			"start":       h.Start,
			"help":        h.Help,
			"today":       h.Today,
			"next":        h.Next,
			"subscribe":   h.Subscribe,
			"unsubscribe": h.Unsubscribe,
			"groups":      h.Groups,
			"default":     h.Default,
			"ical":        h.ICal,
		},
		admin: map[string]commandFunc{
			"refresh": h.Refresh,
			"config":  h.Config,
			"status":  h.Status,
		},
	}
}

// HandleUpdate ставит обработку обновления в очередь пула.
// Если очередь переполнена, обновление обрабатывается сразу.
func (r *Router) HandleUpdate(update tgbotapi.Update) {
	job := worker.Job{
		Kind:   "update",
		ChatID: telegram.ChatID(update),
		Handler: func(ctx context.Context) error {
			return r.process(ctx, update)
		},
	}

	err := r.jobs.Submit(job)
	switch {
	case err == nil:
	case errors.Is(err, worker.ErrQueueFull):
		r.logger.Warn("Job queue is full, handling update inline", zap.Int("update_id", update.UpdateID))
		if err := r.process(context.Background(), update); err != nil {
			r.logger.Error("Failed to handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
		}
	default:
		r.logger.Warn("Update dropped", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
}

func (r *Router) process(ctx context.Context, update tgbotapi.Update) error {
	return r.middleware.Process(update, func(u tgbotapi.Update) error {
		return r.dispatch(ctx, u)
	})
}

func (r *Router) dispatch(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handlers.Callback(ctx, update.CallbackQuery)
	}

	message := update.Message
	if message == nil || !message.IsCommand() {
		return nil
	}

	command := strings.ToLower(message.Command())
	if handler, ok := r.commands[command]; ok {
		return handler(ctx, message)
	}
	if handler, ok := r.admin[command]; ok {
		return r.middleware.AdminOnly(func(u tgbotapi.Update) error {
			return handler(ctx, u.Message)
		})(update)
	}
	return r.handlers.Unknown(ctx, message)
}

// RegisterBotCommands возвращает команды для меню бота
func (r *Router) RegisterBotCommands() []tgbotapi.BotCommand {
	return r.handlers.RegisterBotCommands()
}

// Package middleware содержит цепочку обработки обновлений Telegram.
package middleware

import (
	"maiq/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// HandlerFunc обрабатывает одно обновление
type HandlerFunc func(update tgbotapi.Update) error

// Func - звено цепочки: решает, вызывать ли next
type Func func(update tgbotapi.Update, next HandlerFunc) error

// Replier отправляет пользователю короткие служебные ответы
type Replier interface {
	SendHTML(chatID int64, text string) error
}

// Middleware собирает цепочку recovery, логирования, дебаунса и ограничения частоты
type Middleware struct {
	rateLimiter RateLimiterInterface
	debouncer   DebouncerInterface
	admin       AdminChecker
	replier     Replier
	logger      *zap.Logger
	chain       []Func
}

// New создает middleware по конфигурации
func New(cfg *config.Config, admin AdminChecker, replier Replier, logger *zap.Logger) *Middleware {
	m := &Middleware{
		debouncer: NewDebouncer(DefaultDebounce, logger),
		admin:     admin,
		replier:   replier,
		logger:    logger,
	}

	m.chain = []Func{
		Recovery(replier, logger),
		Logging(logger),
		Debounce(m.debouncer, logger),
	}

	if cfg.RateLimitEnabled {
		m.rateLimiter = NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
		m.chain = append(m.chain, RateLimit(m.rateLimiter, replier, logger))
	}

	return m
}

// Process пропускает обновление через цепочку и вызывает handler
func (m *Middleware) Process(update tgbotapi.Update, handler HandlerFunc) error {
	return Chain(m.chain...)(update, handler)
}

// AdminOnly оборачивает обработчик проверкой прав администратора
func (m *Middleware) AdminOnly(handler HandlerFunc) HandlerFunc {
	check := AdminOnly(m.admin, m.replier, m.logger)
	return func(update tgbotapi.Update) error {
		return check(update, handler)
	}
}

// Cleanup очищает устаревшие записи в middleware
func (m *Middleware) Cleanup() {
	if m.rateLimiter != nil {
		m.rateLimiter.Cleanup()
	}
	m.debouncer.Cleanup()
}

// Chain объединяет звенья: первое звено вызывается первым
func Chain(funcs ...Func) Func {
	return func(update tgbotapi.Update, final HandlerFunc) error {
		next := final
		for i := len(funcs) - 1; i >= 0; i-- {
			f, inner := funcs[i], next
			next = func(u tgbotapi.Update) error {
				return f(u, inner)
			}
		}
		return next(update)
	}
}

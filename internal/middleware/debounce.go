package middleware

import (
	"fmt"
	"sync"
	"time"

	"maiq/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// DefaultDebounce - минимальный интервал между одинаковыми запросами
const DefaultDebounce = 1 * time.Second

// Команды с особыми таймаутами дебаунса
var commandDebounceTimeouts = map[string]time.Duration{
	"refresh": 30 * time.Second,
	"ical":    5 * time.Second,
}

// callbackDebounce защищает от двойного нажатия кнопки
const callbackDebounce = 2 * time.Second

// DebouncerInterface определяет интерфейс для debouncer
type DebouncerInterface interface {
	// CanProcessRequest проверяет, можно ли обработать запрос
	CanProcessRequest(key string) bool
	// CanProcessRequestWithTimeout проверяет, можно ли обработать запрос с кастомным таймаутом
	CanProcessRequestWithTimeout(key string, timeout time.Duration) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
}

// Debouncer отбрасывает повторы одного и того же запроса
type Debouncer struct {
	requests map[string]time.Time
	mu       sync.Mutex
	timeout  time.Duration
	maxAge   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

var _ DebouncerInterface = (*Debouncer)(nil)

// NewDebouncer создает новый debouncer
func NewDebouncer(timeout time.Duration, logger *zap.Logger) *Debouncer {
	maxAge := timeout
	for _, t := range commandDebounceTimeouts {
		maxAge = max(maxAge, t)
	}
	return &Debouncer{
		requests: make(map[string]time.Time),
		timeout:  timeout,
		maxAge:   max(maxAge, callbackDebounce),
		logger:   logger,
		now:      time.Now,
	}
}

// CanProcessRequest проверяет, можно ли обработать запрос
func (d *Debouncer) CanProcessRequest(key string) bool {
	return d.CanProcessRequestWithTimeout(key, d.timeout)
}

// CanProcessRequestWithTimeout проверяет, можно ли обработать запрос с кастомным таймаутом
func (d *Debouncer) CanProcessRequestWithTimeout(key string, timeout time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	lastRequest, exists := d.requests[key]
	if !exists || now.Sub(lastRequest) > timeout {
		d.requests[key] = now
		return true
	}

	return false
}

// Cleanup очищает устаревшие записи
func (d *Debouncer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, lastRequest := range d.requests {
		if now.Sub(lastRequest) > d.maxAge {
			delete(d.requests, key)
		}
	}
}

// Debounce отбрасывает повторную команду или повторное нажатие той же кнопки
func Debounce(debouncer DebouncerInterface, logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next HandlerFunc) error {
		var (
			key        string
			canProcess bool
			timeout    time.Duration
		)

		switch {
		case update.Message != nil:
			command := update.Message.Command()
			key = fmt.Sprintf("%d:%s", update.Message.Chat.ID, command)
			if custom, ok := commandDebounceTimeouts[command]; ok {
				timeout = custom
				canProcess = debouncer.CanProcessRequestWithTimeout(key, custom)
			} else {
				canProcess = debouncer.CanProcessRequest(key)
			}
		case update.CallbackQuery != nil:
			timeout = callbackDebounce
			key = fmt.Sprintf("%d:%s", telegram.ChatID(update), update.CallbackQuery.Data)
			canProcess = debouncer.CanProcessRequestWithTimeout(key, timeout)
		default:
			return next(update)
		}

		if !canProcess {
			logger.Info("Update debounced",
				zap.String("key", key),
				zap.String("user", telegram.UserIdentifier(telegram.From(update))),
				zap.Int("update_id", update.UpdateID),
				zap.Duration("timeout", timeout))
			return nil
		}

		return next(update)
	}
}

package middleware

import (
	"sync"
	"time"

	"maiq/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const rateLimitReply = "⏱ Слишком много запросов. Подождите немного."

// RateLimiterInterface определяет интерфейс для ограничителя запросов
type RateLimiterInterface interface {
	// Allow проверяет, разрешен ли запрос
	Allow(userID int64) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
}

// RateLimiter ограничивает число запросов пользователя в скользящем окне
type RateLimiter struct {
	requests map[int64][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter создает новый rate limiter
func NewRateLimiter(limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// Allow проверяет, разрешен ли запрос, и учитывает его
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.valid(rl.requests[userID], now)

	if len(valid) >= rl.limit {
		rl.requests[userID] = valid
		rl.logger.Warn("Rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int("requests", len(valid)),
			zap.Int("limit", rl.limit))
		return false
	}

	rl.requests[userID] = append(valid, now)
	return true
}

// Cleanup очищает старые записи
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, requests := range rl.requests {
		if valid := rl.valid(requests, now); len(valid) == 0 {
			delete(rl.requests, userID)
		} else {
			rl.requests[userID] = valid
		}
	}
}

func (rl *RateLimiter) valid(requests []time.Time, now time.Time) []time.Time {
	windowStart := now.Add(-rl.window)
	var valid []time.Time
	for _, t := range requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	return valid
}

// RateLimit пропускает запрос, если пользователь не превысил лимит
func RateLimit(limiter RateLimiterInterface, replier Replier, logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next HandlerFunc) error {
		userID := telegram.UserID(update)
		if userID == 0 || limiter.Allow(userID) {
			return next(update)
		}

		if update.Message != nil && replier != nil {
			if err := replier.SendHTML(update.Message.Chat.ID, rateLimitReply); err != nil {
				logger.Error("Failed to send rate limit message", zap.Error(err))
			}
		}
		return nil
	}
}

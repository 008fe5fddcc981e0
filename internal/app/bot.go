package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"maiq/internal/config"
	"maiq/internal/external/telegram"
	"maiq/internal/health"
	"maiq/internal/middleware"
	"maiq/internal/service"
	"maiq/internal/storage"
	"maiq/internal/worker"

	"go.uber.org/zap"
)

const (
	maxRestartAttempts = 10
	restartDelay       = 10 * time.Second
	maxRestartDelay    = 5 * time.Minute
	cleanupInterval    = 5 * time.Minute
	shutdownTimeout    = 30 * time.Second
)

// Bot представляет основную логику бота
type Bot struct {
	config     *config.Config
	logger     *zap.Logger
	db         *storage.Postgres
	telegram   *telegram.Client
	health     *health.Server
	services   *service.Services
	middleware *middleware.Middleware
	pool       *worker.Pool
	router     *Router
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	stopOnce   sync.Once
}

// NewBot создает новый экземпляр бота
func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// NewBotWithFactory создает бота со всеми зависимостями
func NewBotWithFactory(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	return NewComponentFactory(cfg, logger).CreateBot()
}

// Start запускает фоновые компоненты и цикл получения обновлений.
// Возвращает nil после отмены ctx или вызова Stop.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	go func() {
		select {
		case <-ctx.Done():
			b.cancel()
		case <-b.ctx.Done():
		}
	}()

	b.pool.Start()

	if b.health != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := b.health.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				b.logger.Error("Health check server failed", zap.Error(err))
			}
		}()
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				b.middleware.Cleanup()
			case <-b.ctx.Done():
				return
			}
		}
	}()

	if err := b.services.Scheduler.Start(); err != nil {
		b.logger.Error("Failed to start scheduler", zap.Error(err))
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.services.ConfigWatcher.Start(b.ctx)
	}()

	b.logger.Info("Bot started successfully")
	return b.run()
}

// run перезапускает цикл обновлений с растущей задержкой
func (b *Bot) run() error {
	restartAttempts := 0

	for {
		err := b.telegram.Start(b.ctx, b.router)
		if b.ctx.Err() != nil {
			b.logger.Info("Update loop stopped due to context cancellation")
			return nil
		}

		if errors.Is(err, telegram.ErrUpdatesClosed) {
			restartAttempts = 0
			continue
		}

		restartAttempts++
		b.logger.Error("Update loop error",
			zap.Error(err),
			zap.Int("restart_attempt", restartAttempts),
			zap.Int("max_attempts", maxRestartAttempts))

		if restartAttempts > maxRestartAttempts {
			return fmt.Errorf("max restart attempts reached: %w", err)
		}

		delay := time.Duration(restartAttempts) * restartDelay
		if delay > maxRestartDelay {
			delay = maxRestartDelay
		}

		b.logger.Info("Waiting before restart", zap.Duration("delay", delay))
		select {
		case <-b.ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// Stop останавливает бота: сначала источники задач, затем пул и базу
func (b *Bot) Stop() error {
	b.stopOnce.Do(b.stop)
	return nil
}

func (b *Bot) stop() {
	b.logger.Info("Stopping bot gracefully")

	b.services.Scheduler.Stop()
	b.services.ConfigWatcher.Stop()
	b.cancel()

	if b.health != nil {
		if err := b.health.Stop(); err != nil {
			b.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.wg.Wait()
		// уведомления, уже стоящие в очереди, успевают отправиться
		b.pool.Stop()
	}()

	select {
	case <-done:
		b.logger.Info("All goroutines stopped successfully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
	}

	if err := b.db.Close(); err != nil {
		b.logger.Error("Failed to close database connection", zap.Error(err))
	}

	b.logger.Info("Bot stopped successfully")
}

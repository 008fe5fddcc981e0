package service

import (
	"context"
	"slices"
	"time"

	"maiq/internal/config"

	"go.uber.org/zap"
)

// DefaultWatchInterval - период проверки настроек в базе
const DefaultWatchInterval = 30 * time.Second

// ConfigWatcher отслеживает изменения настроек в базе и применяет их без перезапуска.
// Ключи, заданные через окружение, не отслеживаются.
type ConfigWatcher struct {
	configService *ConfigService
	timetable     *TimetableService
	settings      *Settings
	pinned        map[string]bool
	interval      time.Duration
	logger        *zap.Logger
	stopChan      chan struct{}

	applied map[string]string
}

// NewConfigWatcher создает новый наблюдатель конфигурации.
// cfg - конфигурация из окружения, по ней определяются закрепленные ключи.
func NewConfigWatcher(configService *ConfigService, timetable *TimetableService, settings *Settings, cfg *config.Config, logger *zap.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		configService: configService,
		timetable:     timetable,
		settings:      settings,
		pinned: map[string]bool{
			config.KeyAdminUsername: cfg.AdminUsername != "",
			config.KeyGroups:        len(cfg.Groups) > 0,
		},
		interval: DefaultWatchInterval,
		logger:   logger,
		stopChan: make(chan struct{}),
		applied:  make(map[string]string),
	}
}

// Start запускает наблюдение за изменениями конфигурации
func (w *ConfigWatcher) Start(ctx context.Context) {
	w.logger.Info("Starting config watcher", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Config watcher stopped due to context cancellation")
			return
		case <-w.stopChan:
			w.logger.Info("Config watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Stop останавливает наблюдение за изменениями конфигурации
func (w *ConfigWatcher) Stop() {
	close(w.stopChan)
}

// Check читает настройки из базы и применяет изменившиеся
func (w *ConfigWatcher) Check(ctx context.Context) {
	values, err := w.configService.Values(ctx)
	if err != nil {
		w.logger.Error("Failed to get configs for watching", zap.Error(err))
		return
	}

	for key, value := range values {
		if w.pinned[key] || w.applied[key] == value {
			continue
		}
		w.Apply(key, value)
		w.applied[key] = value
	}
}

// Pinned сообщает, что ключ задан через окружение
func (w *ConfigWatcher) Pinned(key string) bool {
	return w.pinned[key]
}

// Apply применяет значение одной настройки
func (w *ConfigWatcher) Apply(key, value string) {
	switch key {
	case config.KeyGroups:
		groups := config.ParseGroups(value)
		if slices.Equal(groups, w.timetable.Groups()) {
			return
		}
		w.logger.Info("Applying groups change", zap.Strings("groups", groups))
		w.timetable.SetGroups(groups)
	case config.KeyAdminUsername:
		w.logger.Info("Applying admin change", zap.String("value", value))
		w.settings.SetAdmin(value)
	default:
		w.logger.Debug("No specific handler for config key", zap.String("key", key))
	}
}

package service

import (
	"maiq/internal/cache"
	"maiq/internal/config"
	"maiq/internal/domain/defaults"
	"maiq/internal/external/scraper"
	"maiq/internal/model"

	"go.uber.org/zap"
)

// Deps - внешние зависимости сервисов
type Deps struct {
	Subscriptions model.SubscriptionRepository
	Configs       model.ConfigRepository
	Fetcher       scraper.Fetcher
	Store         *cache.SnapshotStore
	Schedule      *defaults.Schedule
	Sender        Sender
	Jobs          JobSubmitter
}

// Services содержит все сервисы приложения
type Services struct {
	Timetable     *TimetableService
	Subscription  *SubscriptionService
	Config        *ConfigService
	ConfigWatcher *ConfigWatcher
	Notifier      *Notifier
	Scheduler     *Scheduler
	Settings      *Settings
}

// NewServices создает все сервисы. cfg должен быть уже дополнен значениями из базы.
func NewServices(cfg *config.Config, deps Deps, logger *zap.Logger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	timetableService := NewTimetableService(TimetableConfig{
		TodayURL: cfg.TodayURL,
		NextURL:  cfg.NextURL,
		TTL:      cfg.SnapshotTTL,
		Location: loc,
		Groups:   cfg.Groups,
	}, deps.Fetcher, deps.Store, deps.Schedule, logger)

	subscriptionService := NewSubscriptionService(deps.Subscriptions, timetableService, logger)
	configService := NewConfigService(deps.Configs, logger)
	settings := NewSettings(cfg.AdminUsername)

	notifier := NewNotifier(subscriptionService, deps.Sender, deps.Jobs, logger)
	timetableService.OnUpdate(notifier.HandleUpdate)

	return &Services{
		Timetable:     timetableService,
		Subscription:  subscriptionService,
		Config:        configService,
		ConfigWatcher: NewConfigWatcher(configService, timetableService, settings, cfg, logger),
		Notifier:      notifier,
		Scheduler:     NewScheduler(timetableService, cfg.PollCron, loc, logger),
		Settings:      settings,
	}, nil
}

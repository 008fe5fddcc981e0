package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"maiq/internal/cache"
	"maiq/internal/config"
	"maiq/internal/domain/defaults"
	"maiq/internal/exporter"
	"maiq/internal/external/scraper"
	"maiq/internal/external/telegram"
	"maiq/internal/handlers"
	"maiq/internal/health"
	"maiq/internal/keyboard"
	"maiq/internal/middleware"
	"maiq/internal/service"
	"maiq/internal/storage"
	"maiq/internal/worker"

	"go.uber.org/zap"
)

const migrateTimeout = 30 * time.Second

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if logger == nil {
		panic("Logger cannot be nil")
	}
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase подключается к базе и создает таблицы
func (f *ComponentFactory) CreateDatabase() (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(f.config.DatabaseURL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// LoadConfigFromDB дополняет конфигурацию настройками из базы
func (f *ComponentFactory) LoadConfigFromDB(db *storage.Postgres) {
	configService := service.NewConfigService(db.GetConfigRepository(), f.logger)
	config.NewConfigLoader(configService, f.logger).LoadConfigFromDB(f.config)
}

// CreateTelegramClient создает клиент Telegram
func (f *ComponentFactory) CreateTelegramClient() (*telegram.Client, error) {
	if f.config.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	client, err := telegram.NewClient(f.config.BotToken, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	f.logger.Info("Telegram client created successfully")
	return client, nil
}

// CreateScraper создает загрузчик страниц расписания
func (f *ComponentFactory) CreateScraper() scraper.Fetcher {
	return NewFetcher(f.config, f.logger)
}

// NewFetcher создает загрузчик страниц по конфигурации
func NewFetcher(cfg *config.Config, logger *zap.Logger) scraper.Fetcher {
	sc := cfg.ScraperConfig
	scraperConfig := scraper.Config{
		HTTPClientConfig: scraper.HTTPClientConfig{
			MaxIdleConns:          sc.HTTPClientConfig.MaxIdleConns,
			MaxIdleConnsPerHost:   sc.HTTPClientConfig.MaxIdleConnsPerHost,
			IdleConnTimeout:       sc.HTTPClientConfig.IdleConnTimeout,
			TLSHandshakeTimeout:   sc.HTTPClientConfig.TLSHandshakeTimeout,
			ResponseHeaderTimeout: sc.HTTPClientConfig.ResponseHeaderTimeout,
			DisableKeepAlives:     sc.HTTPClientConfig.DisableKeepAlives,
		},
		RetryConfig: scraper.RetryConfig{
			MaxRetries:        sc.RetryConfig.MaxRetries,
			InitialDelay:      sc.RetryConfig.InitialDelay,
			MaxDelay:          sc.RetryConfig.MaxDelay,
			BackoffMultiplier: sc.RetryConfig.BackoffMultiplier,
		},
		RequestDelay:   sc.RequestDelay,
		RequestTimeout: sc.RequestTimeout,
		UserAgent:      sc.UserAgent,
	}
	return scraper.NewFetcher(scraperConfig, logger)
}

// CreateSnapshotStore создает хранилище снимков в SNAPSHOT_DIR или в каталоге данных
func (f *ComponentFactory) CreateSnapshotStore() *cache.SnapshotStore {
	dir := f.config.SnapshotDir
	if dir == "" {
		dir = filepath.Join(f.config.GetAppDataDir(), "snapshots")
	}
	return cache.NewSnapshotStore(dir, f.logger)
}

// CreateWorkerPool создает пул воркеров
func (f *ComponentFactory) CreateWorkerPool() *worker.Pool {
	return worker.NewPool(f.config.Workers, f.config.QueueSize, f.logger)
}

// CreateServices создает все сервисы
func (f *ComponentFactory) CreateServices(db *storage.Postgres, botAPI telegram.BotAPI, pool *worker.Pool) (*service.Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	schedule, err := defaults.Load(f.config.DefaultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load default schedule: %w", err)
	}

	services, err := service.NewServices(f.config, service.Deps{
		Subscriptions: db.GetSubscriptionRepository(),
		Configs:       db.GetConfigRepository(),
		Fetcher:       f.CreateScraper(),
		Store:         f.CreateSnapshotStore(),
		Schedule:      schedule,
		Sender:        botAPI,
		Jobs:          pool,
	}, f.logger)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateMiddleware создает middleware
func (f *ComponentFactory) CreateMiddleware(services *service.Services, botAPI telegram.BotAPI) *middleware.Middleware {
	middlewareManager := middleware.New(f.config, services.Settings, botAPI, f.logger)
	f.logger.Info("Middleware created successfully")
	return middlewareManager
}

// CreateRouter создает обработчики и роутер
func (f *ComponentFactory) CreateRouter(services *service.Services, mw *middleware.Middleware, pool *worker.Pool, botAPI telegram.BotAPI) (*Router, error) {
	bells, err := exporter.ParseBells(f.config.Bells)
	if err != nil {
		return nil, fmt.Errorf("invalid bells: %w", err)
	}

	h := handlers.New(handlers.Deps{
		Timetable:     services.Timetable,
		Subscriptions: services.Subscription,
		Configs:       services.Config,
		Watcher:       services.ConfigWatcher,
		Scheduler:     services.Scheduler,
		Pool:          pool,
		Keyboard:      keyboard.NewManager(services.Timetable.Schedule().Weekdays()),
		Bells:         bells,
		Admin:         services.Settings.Admin,
	}, botAPI, f.logger)

	return NewRouter(h, mw, pool, f.logger), nil
}

// CreateHealthServer создает сервер health check
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, services *service.Services) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort == "" {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewServer(f.config.HealthPort, f.logger, db, services.Timetable.Store())
	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server, nil
}

// CreateAppDataDirectory создает директорию данных приложения
func (f *ComponentFactory) CreateAppDataDirectory() error {
	dataDir := f.config.GetAppDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		f.logger.Error("Failed to create app data directory", zap.String("dir", dataDir), zap.Error(err))
		return fmt.Errorf("failed to create app data directory: %w", err)
	}
	f.logger.Info("App data directory ready", zap.String("dir", dataDir))
	return nil
}

// CreateBot создает полный экземпляр бота со всеми зависимостями
func (f *ComponentFactory) CreateBot() (*Bot, error) {
	if err := f.CreateAppDataDirectory(); err != nil {
		return nil, err
	}

	db, err := f.CreateDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	// значения из окружения имеют приоритет над базой
	f.LoadConfigFromDB(db)

	tgClient, err := f.CreateTelegramClient()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	botAPI := tgClient.GetBotAPI()

	pool := f.CreateWorkerPool()

	services, err := f.CreateServices(db, botAPI, pool)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	healthServer, err := f.CreateHealthServer(db, services)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	middlewareManager := f.CreateMiddleware(services, botAPI)

	router, err := f.CreateRouter(services, middlewareManager, pool, botAPI)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bot, err := NewBot(f.config, f.logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.db = db
	bot.telegram = tgClient
	bot.health = healthServer
	bot.services = services
	bot.middleware = middlewareManager
	bot.pool = pool
	bot.router = router

	if len(f.config.Groups) == 0 {
		f.logger.Warn("GROUPS is empty; groups will be taken from the timetable itself")
	}

	f.logger.Info("Bot created successfully with all dependencies")
	return bot, nil
}

// Package storage содержит работу с базой данных.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"maiq/internal/model"
	"maiq/internal/storage/repository"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
)

// Postgres представляет подключение к PostgreSQL
type Postgres struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPostgres создает новое подключение к PostgreSQL с retry логикой
func NewPostgres(databaseURL string, logger *zap.Logger) (*Postgres, error) {
	const maxRetries = 10
	const retryDelay = 5 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("Attempting to connect to database",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries))

		db := open(databaseURL, logger)

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		lastErr = db.PingContext(pingCtx)
		pingCancel()

		if lastErr != nil {
			logger.Warn("Failed to connect to database",
				zap.Int("attempt", attempt),
				zap.Error(lastErr))

			if err := db.Close(); err != nil {
				logger.Warn("Failed to close database connection", zap.Error(err))
			}

			if attempt < maxRetries {
				logger.Info("Retrying connection", zap.Duration("delay", retryDelay))
				time.Sleep(retryDelay)
			}
			continue
		}

		logger.Info("Connected to PostgreSQL database with Bun ORM",
			zap.Int("attempt", attempt))

		return &Postgres{
			db:     db,
			logger: logger,
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

func open(databaseURL string, logger *zap.Logger) *bun.DB {
	// search_path задается на уровне соединения, чтобы он действовал для всего пула
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(databaseURL),
		pgdriver.WithConnParams(map[string]interface{}{
			"search_path": model.Schema + ", public",
		}),
	))

	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxLifetime(5 * time.Minute)
	sqldb.SetConnMaxIdleTime(1 * time.Minute)

	db := bun.NewDB(sqldb, pgdialect.New())

	if logger.Core().Enabled(zap.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	return db
}

// Migrate создает схему и таблицы, если их еще нет
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+model.Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	models := []interface{}{
		(*model.Subscription)(nil),
		(*model.Config)(nil),
	}
	for _, m := range models {
		if _, err := p.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", m, err)
		}
	}

	_, err := p.db.NewCreateIndex().
		Model((*model.Subscription)(nil)).
		Index("subscriptions_group_name_idx").
		Column("group_name").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create subscriptions index: %w", err)
	}

	p.logger.Info("Database schema is up to date", zap.String("schema", model.Schema))
	return nil
}

// Ping проверяет соединение с базой
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (p *Postgres) Close() error {
	return p.db.Close()
}

// GetDB возвращает подключение к базе данных
func (p *Postgres) GetDB() *bun.DB {
	return p.db
}

// GetSubscriptionRepository возвращает репозиторий подписок
func (p *Postgres) GetSubscriptionRepository() model.SubscriptionRepository {
	return repository.NewSubscriptionRepository(p.db, p.logger)
}

// GetConfigRepository возвращает репозиторий конфигурации
func (p *Postgres) GetConfigRepository() model.ConfigRepository {
	return repository.NewConfigRepository(p.db, p.logger)
}

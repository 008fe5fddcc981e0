// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"maiq/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ConfigRepository реализует интерфейс для работы с конфигурацией
type ConfigRepository struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewConfigRepository создает новый репозиторий конфигурации
func NewConfigRepository(db bun.IDB, logger *zap.Logger) *ConfigRepository {
	return &ConfigRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает настройку по ключу или nil, если ее нет
func (r *ConfigRepository) Get(ctx context.Context, key string) (*model.Config, error) {
	config := new(model.Config)

	err := r.db.NewSelect().
		Model(config).
		Where("key = ?", key).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return config, nil
}

// GetAll возвращает все настройки
func (r *ConfigRepository) GetAll(ctx context.Context) ([]model.Config, error) {
	var configs []model.Config

	err := r.db.NewSelect().
		Model(&configs).
		Order("key ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query config: %w", err)
	}

	return configs, nil
}

// Set устанавливает значение настройки
func (r *ConfigRepository) Set(ctx context.Context, key, value string) error {
	config := &model.Config{
		Key:   key,
		Value: value,
	}

	_, err := r.db.NewInsert().
		Model(config).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = NOW()").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	r.logger.Debug("Config stored", zap.String("key", key))
	return nil
}

// Delete удаляет настройку
func (r *ConfigRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.NewDelete().
		Model((*model.Config)(nil)).
		Where("key = ?", key).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}

	return nil
}

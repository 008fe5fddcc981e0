package service

import (
	"context"
	"fmt"
	"strings"

	"maiq/internal/config"
	"maiq/internal/model"

	"go.uber.org/zap"
)

// EditableKeys - настройки, которые администратор может менять из бота
var EditableKeys = []string{config.KeyAdminUsername, config.KeyGroups}

// ConfigService содержит бизнес-логику для работы с настройками в базе
type ConfigService struct {
	repo   model.ConfigRepository
	logger *zap.Logger
}

// NewConfigService создает новый сервис конфигурации
func NewConfigService(repo model.ConfigRepository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repo:   repo,
		logger: logger,
	}
}

// Get возвращает значение настройки
func (s *ConfigService) Get(key string) (string, error) {
	cfg, err := s.repo.Get(context.Background(), key)
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}

	if cfg == nil {
		return "", fmt.Errorf("config %s not found", key)
	}

	return cfg.Value, nil
}

// Set проверяет и сохраняет значение настройки
func (s *ConfigService) Set(ctx context.Context, key, value string) error {
	key = strings.ToUpper(strings.TrimSpace(key))
	if err := model.ValidateConfigKey("key", key, EditableKeys); err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case config.KeyGroups:
		for _, g := range config.ParseGroups(value) {
			if err := model.ValidateGroupName("GROUPS", g); err != nil {
				return err
			}
		}
		value = strings.Join(config.ParseGroups(value), ";")
	case config.KeyAdminUsername:
		value = strings.TrimPrefix(value, "@")
	}

	if err := s.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}

	s.logger.Info("Config updated", zap.String("key", key), zap.String("value", value))
	return nil
}

// Values возвращает все настройки из базы
func (s *ConfigService) Values(ctx context.Context) (map[string]string, error) {
	configs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all configs: %w", err)
	}

	values := make(map[string]string, len(configs))
	for _, c := range configs {
		values[c.Key] = c.Value
	}
	return values, nil
}

// Describe возвращает настройки из базы в виде текста для администратора
func (s *ConfigService) Describe(ctx context.Context) (string, error) {
	configs, err := s.repo.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get all configs: %w", err)
	}

	var result strings.Builder
	result.WriteString("📋 Настройки в базе:\n\n")
	if len(configs) == 0 {
		result.WriteString("пусто")
	}
	for _, c := range configs {
		fmt.Fprintf(&result, "🔧 <b>%s</b>: %s\n", c.Key, c.Value)
	}

	return strings.TrimRight(result.String(), "\n"), nil
}

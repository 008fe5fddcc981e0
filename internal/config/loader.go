package config

import (
	"strings"

	"go.uber.org/zap"
)

// Ключи настроек, которые можно хранить в базе
const (
	KeyAdminUsername = "ADMIN_USERNAME"
	KeyGroups        = "GROUPS"
)

// ConfigLoader дополняет конфигурацию значениями из базы данных
type ConfigLoader struct {
	configService ConfigServiceInterface
	logger        *zap.Logger
}

// ConfigServiceInterface определяет интерфейс для работы с конфигурацией
type ConfigServiceInterface interface {
	Get(key string) (string, error)
}

// NewConfigLoader создает новый загрузчик конфигурации
func NewConfigLoader(configService ConfigServiceInterface, logger *zap.Logger) *ConfigLoader {
	return &ConfigLoader{
		configService: configService,
		logger:        logger,
	}
}

// LoadConfigValue загружает значение с приоритетом: env > база данных
func (cl *ConfigLoader) LoadConfigValue(envValue, configKey string) string {
	if envValue != "" {
		cl.logger.Debug("Using "+configKey+" from environment variables")
		return envValue
	}

	dbValue, err := cl.configService.Get(configKey)
	if err != nil || dbValue == "" {
		cl.logger.Debug("Failed to load "+configKey+" from database", zap.Error(err))
		return ""
	}

	cl.logger.Info("Loaded "+configKey+" from database", zap.String("value", dbValue))
	return dbValue
}

// LoadConfigFromDB заполняет пустые в окружении поля из базы данных
func (cl *ConfigLoader) LoadConfigFromDB(cfg *Config) {
	if v := cl.LoadConfigValue(cfg.AdminUsername, KeyAdminUsername); v != "" {
		cfg.AdminUsername = strings.TrimPrefix(v, "@")
	}

	if len(cfg.Groups) == 0 {
		if v := cl.LoadConfigValue("", KeyGroups); v != "" {
			cfg.Groups = ParseGroups(v)
		}
	}
}

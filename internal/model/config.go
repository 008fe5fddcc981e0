// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Config, ConfigRepository
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Config представляет настройку, хранимую в базе
type Config struct {
	bun.BaseModel `bun:"table:maiq.config"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	Key         string    `bun:"key,unique,notnull" json:"key"`
	Value       string    `bun:"value,notnull" json:"value"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ConfigRepository определяет интерфейс для работы с конфигурацией
type ConfigRepository interface {
	Get(ctx context.Context, key string) (*Config, error)
	GetAll(ctx context.Context) ([]Config, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

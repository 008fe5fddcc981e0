// Package model содержит модели хранилища и интерфейсы репозиториев.
//
// Группа: BASE - Базовые компоненты
// Содержит: TimestampedModel, Schema
package model

import (
	"time"
)

// Schema - схема PostgreSQL, в которой живут таблицы бота
const Schema = "maiq"

// TimestampedModel представляет модель с временными метками
type TimestampedModel struct {
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

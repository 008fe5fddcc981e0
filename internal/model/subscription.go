// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Subscription, SubscriptionRepository
package model

import (
	"context"

	"github.com/uptrace/bun"
)

// Subscription связывает чат Telegram с группой, об изменениях которой он узнает
type Subscription struct {
	bun.BaseModel `bun:"table:maiq.subscriptions"`

	ChatID    int64  `bun:"chat_id,pk" json:"chat_id"`
	GroupName string `bun:"group_name,notnull" json:"group_name"`
	TimestampedModel
}

// Validate проверяет подписку
func (s *Subscription) Validate() error {
	var errs ValidationErrors
	if s.ChatID == 0 {
		errs = append(errs, ValidationError{Field: "chat_id", Message: "is required"})
	}
	if err := ValidateGroupName("group_name", s.GroupName); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// SubscriptionRepository определяет интерфейс для работы с подписками
type SubscriptionRepository interface {
	Get(ctx context.Context, chatID int64) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, chatID int64) (bool, error)
	ListByGroup(ctx context.Context, groupName string) ([]Subscription, error)
	CountByGroup(ctx context.Context) (map[string]int, error)
}

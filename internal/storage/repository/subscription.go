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

// SubscriptionRepository хранит подписки чатов на группы
type SubscriptionRepository struct {
	db     bun.IDB
	logger *zap.Logger
}

// NewSubscriptionRepository создает новый репозиторий подписок
func NewSubscriptionRepository(db bun.IDB, logger *zap.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает подписку чата или nil, если чат не подписан
func (r *SubscriptionRepository) Get(ctx context.Context, chatID int64) (*model.Subscription, error) {
	sub := new(model.Subscription)

	err := r.db.NewSelect().
		Model(sub).
		Where("chat_id = ?", chatID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

// Upsert создает подписку или меняет группу существующей
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *model.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	_, err := r.db.NewInsert().
		Model(sub).
		On("CONFLICT (chat_id) DO UPDATE").
		Set("group_name = EXCLUDED.group_name").
		Set("updated_at = NOW()").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	r.logger.Debug("Subscription stored",
		zap.Int64("chat_id", sub.ChatID),
		zap.String("group", sub.GroupName))
	return nil
}

// Delete удаляет подписку чата, возвращает false, если ее не было
func (r *SubscriptionRepository) Delete(ctx context.Context, chatID int64) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*model.Subscription)(nil)).
		Where("chat_id = ?", chatID).
		Exec(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// ListByGroup возвращает подписки на группу
func (r *SubscriptionRepository) ListByGroup(ctx context.Context, groupName string) ([]model.Subscription, error) {
	var subs []model.Subscription

	err := r.db.NewSelect().
		Model(&subs).
		Where("group_name = ?", groupName).
		Order("chat_id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return subs, nil
}

// CountByGroup возвращает число подписчиков по группам
func (r *SubscriptionRepository) CountByGroup(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		GroupName string `bun:"group_name"`
		Count     int    `bun:"count"`
	}

	err := r.db.NewSelect().
		Model((*model.Subscription)(nil)).
		Column("group_name").
		ColumnExpr("count(*) AS count").
		Group("group_name").
		Scan(ctx, &rows)

	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.GroupName] = row.Count
	}
	return counts, nil
}

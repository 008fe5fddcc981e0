package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maiq/internal/model"

	"go.uber.org/zap"
)

// ErrUnknownGroup - группы нет среди отслеживаемых
var ErrUnknownGroup = errors.New("unknown group")

// GroupSource возвращает группы, на которые можно подписаться
type GroupSource interface {
	KnownGroups() []string
}

// SubscriptionService управляет подписками чатов на группы
type SubscriptionService struct {
	repo   model.SubscriptionRepository
	groups GroupSource
	logger *zap.Logger
}

// NewSubscriptionService создает сервис подписок
func NewSubscriptionService(repo model.SubscriptionRepository, groups GroupSource, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		groups: groups,
		logger: logger,
	}
}

// Resolve находит группу по имени без учета регистра
func (s *SubscriptionService) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, g := range s.groups.KnownGroups() {
		if strings.EqualFold(g, name) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownGroup, name)
}

// Subscribe подписывает чат на группу, заменяя прежнюю подписку
func (s *SubscriptionService) Subscribe(ctx context.Context, chatID int64, group string) (string, error) {
	resolved, err := s.Resolve(group)
	if err != nil {
		return "", err
	}

	if err := s.repo.Upsert(ctx, &model.Subscription{ChatID: chatID, GroupName: resolved}); err != nil {
		return "", fmt.Errorf("failed to subscribe: %w", err)
	}

	s.logger.Info("Chat subscribed",
		zap.Int64("chat_id", chatID),
		zap.String("group", resolved))
	return resolved, nil
}

// Unsubscribe удаляет подписку чата, возвращает false, если ее не было
func (s *SubscriptionService) Unsubscribe(ctx context.Context, chatID int64) (bool, error) {
	removed, err := s.repo.Delete(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if removed {
		s.logger.Info("Chat unsubscribed", zap.Int64("chat_id", chatID))
	}
	return removed, nil
}

// GroupOf возвращает группу, на которую подписан чат, или пустую строку
func (s *SubscriptionService) GroupOf(ctx context.Context, chatID int64) (string, error) {
	sub, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return "", nil
	}
	return sub.GroupName, nil
}

// Subscribers возвращает чаты, подписанные на группу
func (s *SubscriptionService) Subscribers(ctx context.Context, group string) ([]int64, error) {
	subs, err := s.repo.ListByGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers of %s: %w", group, err)
	}

	chats := make([]int64, 0, len(subs))
	for _, sub := range subs {
		chats = append(chats, sub.ChatID)
	}
	return chats, nil
}

// Counts возвращает число подписчиков по группам
func (s *SubscriptionService) Counts(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.CountByGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return counts, nil
}

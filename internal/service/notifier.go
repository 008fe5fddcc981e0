package service

import (
	"context"
	"errors"

	"maiq/internal/formatter"
	"maiq/internal/worker"

	"go.uber.org/zap"
)

// Sender отправляет сообщения в чат
type Sender interface {
	SendHTML(chatID int64, text string) error
}

// JobSubmitter ставит задачи в очередь
type JobSubmitter interface {
	Submit(job worker.Job) error
}

// Notifier рассылает подписчикам уведомления об изменениях расписания
type Notifier struct {
	subs   *SubscriptionService
	sender Sender
	jobs   JobSubmitter
	logger *zap.Logger
}

// NewNotifier создает рассыльщика уведомлений
func NewNotifier(subs *SubscriptionService, sender Sender, jobs JobSubmitter, logger *zap.Logger) *Notifier {
	return &Notifier{
		subs:   subs,
		sender: sender,
		jobs:   jobs,
		logger: logger,
	}
}

// HandleUpdate ставит в очередь по одному сообщению на каждого подписчика измененной группы.
// Первое обновление после старта не рассылается.
func (n *Notifier) HandleUpdate(ctx context.Context, u Update) {
	if u.Err != nil || u.Snapshot == nil || u.Initial() || len(u.Changed) == 0 {
		return
	}

	for _, group := range u.Changed {
		chats, err := n.subs.Subscribers(ctx, group)
		if err != nil {
			n.logger.Error("Failed to load subscribers",
				zap.String("group", group),
				zap.Error(err))
			continue
		}
		if len(chats) == 0 {
			continue
		}

		text := formatter.Change(u.Mode, u.Snapshot, group)
		for _, chatID := range chats {
			n.enqueue(chatID, group, text)
		}

		n.logger.Info("Change notifications queued",
			zap.Stringer("mode", u.Mode),
			zap.String("group", group),
			zap.Int("subscribers", len(chats)))
	}
}

func (n *Notifier) enqueue(chatID int64, group, text string) {
	err := n.jobs.Submit(worker.Job{
		Kind:   "notify",
		ChatID: chatID,
		Handler: func(context.Context) error {
			return n.sender.SendHTML(chatID, text)
		},
	})
	if err == nil {
		return
	}

	level := n.logger.Error
	if errors.Is(err, worker.ErrStopped) {
		level = n.logger.Warn
	}
	level("Failed to queue notification",
		zap.Int64("chat_id", chatID),
		zap.String("group", group),
		zap.Error(err))
}

// Package handlers содержит обработчики команд и кнопок бота.
package handlers

import (
	"context"
	"errors"
	"html"
	"time"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/exporter"
	"maiq/internal/external/telegram"
	"maiq/internal/keyboard"
	"maiq/internal/service"
	"maiq/internal/worker"

	"go.uber.org/zap"
)

// errNoGroup - группа не указана и чат ни на что не подписан
var errNoGroup = errors.New("group is not specified")

// TimetableProvider отдает снимки расписания
type TimetableProvider interface {
	Snapshot(ctx context.Context, mode timetable.FetchMode) (*timetable.Snapshot, error)
	RefreshAll(ctx context.Context) []service.Update
	KnownGroups() []string
	Schedule() *defaults.Schedule
	Location() *time.Location
}

// SubscriptionManager управляет подписками чатов
type SubscriptionManager interface {
	Resolve(name string) (string, error)
	Subscribe(ctx context.Context, chatID int64, group string) (string, error)
	Unsubscribe(ctx context.Context, chatID int64) (bool, error)
	GroupOf(ctx context.Context, chatID int64) (string, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// ConfigEditor меняет настройки в базе
type ConfigEditor interface {
	Set(ctx context.Context, key, value string) error
	Describe(ctx context.Context) (string, error)
}

// ConfigApplier применяет настройки без перезапуска
type ConfigApplier interface {
	Pinned(key string) bool
	Apply(key, value string)
}

// StatusReporter сообщает состояние планировщика
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

// PoolStats сообщает счетчики пула воркеров
type PoolStats interface {
	Stats() worker.Stats
}

// Deps - зависимости обработчиков
type Deps struct {
	Timetable     TimetableProvider
	Subscriptions SubscriptionManager
	Configs       ConfigEditor
	Watcher       ConfigApplier
	Scheduler     StatusReporter
	Pool          PoolStats
	Keyboard      *keyboard.Manager
	Bells         exporter.Bells
	Admin         func() string
}

// Handlers содержит все обработчики команд
type Handlers struct {
	Deps
	botAPI telegram.BotAPI
	logger *zap.Logger
}

// New создает новый экземпляр обработчиков
func New(deps Deps, botAPI telegram.BotAPI, logger *zap.Logger) *Handlers {
	return &Handlers{
		Deps:   deps,
		botAPI: botAPI,
		logger: logger,
	}
}

// resolveGroup возвращает группу из аргумента или подписки чата
func (h *Handlers) resolveGroup(ctx context.Context, chatID int64, arg string) (string, error) {
	if arg != "" {
		return h.Subscriptions.Resolve(arg)
	}

	group, err := h.Subscriptions.GroupOf(ctx, chatID)
	if err != nil {
		return "", err
	}
	if group == "" {
		return "", errNoGroup
	}
	return group, nil
}

// groupError отвечает пользователю на ошибку определения группы
func (h *Handlers) groupError(chatID int64, err error) error {
	switch {
	case errors.Is(err, errNoGroup):
		return h.promptSubscribe(chatID, "Укажите группу, например <code>/today Ит1-22</code>, или подпишитесь:")
	case errors.Is(err, service.ErrUnknownGroup):
		return h.botAPI.SendHTML(chatID, "Такой группы нет в расписании. Список групп: /groups")
	default:
		h.logger.Error("Failed to resolve group", zap.Int64("chat_id", chatID), zap.Error(err))
		return h.botAPI.SendHTML(chatID, "❌ Не удалось определить группу. Попробуйте позже.")
	}
}

func (h *Handlers) promptSubscribe(chatID int64, text string) error {
	groups := h.Timetable.KnownGroups()
	if len(groups) == 0 {
		return h.botAPI.SendHTML(chatID, text+"\n\nСписок групп пока пуст: расписание еще не загружено.")
	}
	return h.botAPI.SendHTMLWithKeyboard(chatID, text, h.Keyboard.Groups(groups, ""))
}

func (h *Handlers) adminName() string {
	if h.Admin == nil {
		return ""
	}
	return h.Admin()
}

func esc(s string) string {
	return html.EscapeString(s)
}

package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maiq/internal/parser"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Refresh обрабатывает команду /refresh: загружает обе страницы без учета TTL
func (h *Handlers) Refresh(ctx context.Context, message *tgbotapi.Message) error {
	var sb strings.Builder
	sb.WriteString("🔄 Обновление расписания\n\n")

	for _, u := range h.Timetable.RefreshAll(ctx) {
		fmt.Fprintf(&sb, "<b>%s</b>: ", u.Mode)
		switch {
		case parser.IsNotYet(u.Err):
			sb.WriteString("еще не опубликовано\n")
		case u.Err != nil:
			fmt.Fprintf(&sb, "ошибка: %s\n", esc(u.Err.Error()))
		default:
			fmt.Fprintf(&sb, "%s, групп: %d, изменилось: %d\n",
				u.Snapshot.Date.Format("02.01.2006"), len(u.Snapshot.Groups), len(u.Changed))
		}
	}

	return h.botAPI.SendHTML(message.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

// Config обрабатывает команду /config [KEY value]
func (h *Handlers) Config(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())

	if len(args) == 0 {
		text, err := h.Configs.Describe(ctx)
		if err != nil {
			return err
		}
		return h.botAPI.SendHTML(chatID, text+"\n\nИзменить: <code>/config KEY value</code>")
	}

	if len(args) < 2 {
		return h.botAPI.SendHTML(chatID, "Использование: <code>/config KEY value</code>")
	}

	key := strings.ToUpper(args[0])
	value := strings.Join(args[1:], " ")
	if err := h.Configs.Set(ctx, key, value); err != nil {
		h.logger.Warn("Failed to set config", zap.String("key", key), zap.Error(err))
		return h.botAPI.SendHTML(chatID, "❌ "+esc(err.Error()))
	}

	if h.Watcher.Pinned(key) {
		return h.botAPI.SendHTML(chatID, fmt.Sprintf(
			"Сохранено, но <b>%s</b> задан в окружении и будет использоваться после удаления переменной.", key))
	}

	h.Watcher.Apply(key, value)
	return h.botAPI.SendHTML(chatID, fmt.Sprintf("✅ <b>%s</b> обновлен", key))
}

// Status обрабатывает команду /status: планировщик и очередь задач
func (h *Handlers) Status(_ context.Context, message *tgbotapi.Message) error {
	var sb strings.Builder
	sb.WriteString("📊 <b>Состояние</b>\n\n")

	status := h.Scheduler.GetStatus()
	fmt.Fprintf(&sb, "Планировщик: %v, cron <code>%v</code>\n", status["running"], status["cron"])
	if last, ok := status["last_run"].(time.Time); ok && !last.IsZero() {
		fmt.Fprintf(&sb, "Последний опрос: %s\n", last.In(h.Timetable.Location()).Format("02.01 15:04:05"))
	}

	stats := h.Pool.Stats()
	fmt.Fprintf(&sb, "Задач выполнено: %d, с ошибкой: %d, в очереди: %d\n",
		stats.Processed, stats.Failed, stats.Queued)

	fmt.Fprintf(&sb, "Групп: %d", len(h.Timetable.KnownGroups()))

	return h.botAPI.SendHTML(message.Chat.ID, sb.String())
}

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/exporter"
	"maiq/internal/formatter"
	"maiq/internal/parser"
	"maiq/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const loadFailedText = "❌ Не удалось загрузить расписание. Попробуйте позже."

// Start обрабатывает команду /start
func (h *Handlers) Start(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	group, err := h.Subscriptions.GroupOf(ctx, chatID)
	if err != nil {
		return err
	}

	if group != "" {
		text := fmt.Sprintf("С возвращением! Вы подписаны на группу <b>%s</b>.\n\n"+
			"/today - расписание на сегодня\n/next - на следующий день\n/help - все команды", group)
		return h.botAPI.SendHTMLWithKeyboard(chatID, text, h.Keyboard.Days(group))
	}

	return h.promptSubscribe(chatID, "👋 Привет! Я показываю расписание и присылаю уведомления об изменениях.\n\nВыберите свою группу:")
}

// Help обрабатывает команду /help
func (h *Handlers) Help(_ context.Context, message *tgbotapi.Message) error {
	text := "<b>Команды</b>\n\n" +
		"/today [группа] - расписание на сегодня\n" +
		"/next [группа] - расписание на следующий день\n" +
		"/subscribe [группа] - подписаться на изменения\n" +
		"/unsubscribe - отписаться\n" +
		"/groups - список групп\n" +
		"/default [день] [группа] - обычное расписание\n" +
		"/ical [today|next] [группа] - выгрузить пары в календарь\n\n" +
		"Без группы используется группа подписки."

	if admin := h.adminName(); admin != "" {
		text += fmt.Sprintf("\n\nПо вопросам: @%s", admin)
	}
	return h.botAPI.SendHTML(message.Chat.ID, text)
}

// Today обрабатывает команду /today
func (h *Handlers) Today(ctx context.Context, message *tgbotapi.Message) error {
	return h.day(ctx, message, timetable.Today)
}

// Next обрабатывает команду /next
func (h *Handlers) Next(ctx context.Context, message *tgbotapi.Message) error {
	return h.day(ctx, message, timetable.Next)
}

func (h *Handlers) day(ctx context.Context, message *tgbotapi.Message, mode timetable.FetchMode) error {
	chatID := message.Chat.ID
	group, err := h.resolveGroup(ctx, chatID, strings.TrimSpace(message.CommandArguments()))
	if err != nil {
		return h.groupError(chatID, err)
	}

	text, err := h.dayText(ctx, mode, group)
	if err != nil {
		return err
	}
	return h.botAPI.SendHTMLWithKeyboard(chatID, text, h.Keyboard.Days(group))
}

// dayText возвращает расписание группы на день режима
func (h *Handlers) dayText(ctx context.Context, mode timetable.FetchMode, group string) (string, error) {
	snapshot, err := h.Timetable.Snapshot(ctx, mode)
	switch {
	case parser.IsNotYet(err):
		return formatter.NotYet(mode), nil
	case err != nil:
		h.logger.Error("Failed to get snapshot", zap.Stringer("mode", mode), zap.Error(err))
		return loadFailedText, nil
	}

	g, ok := snapshot.Group(group)
	if !ok {
		return formatter.GroupMissing(snapshot, group), nil
	}
	return formatter.Group(snapshot, g), nil
}

// Subscribe обрабатывает команду /subscribe
func (h *Handlers) Subscribe(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		current, err := h.Subscriptions.GroupOf(ctx, chatID)
		if err != nil {
			return err
		}
		groups := h.Timetable.KnownGroups()
		if len(groups) == 0 {
			return h.botAPI.SendHTML(chatID, "Список групп пока пуст: расписание еще не загружено.")
		}
		return h.botAPI.SendHTMLWithKeyboard(chatID, "Выберите группу:", h.Keyboard.Groups(groups, current))
	}

	text, err := h.subscribe(ctx, chatID, arg)
	if err != nil {
		return err
	}
	return h.botAPI.SendHTML(chatID, text)
}

func (h *Handlers) subscribe(ctx context.Context, chatID int64, group string) (string, error) {
	resolved, err := h.Subscriptions.Subscribe(ctx, chatID, group)
	switch {
	case errors.Is(err, service.ErrUnknownGroup):
		return "Такой группы нет в расписании. Список групп: /groups", nil
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("🔔 Вы подписаны на группу <b>%s</b>. Пришлю сообщение, когда ее расписание изменится.", resolved), nil
}

// Unsubscribe обрабатывает команду /unsubscribe
func (h *Handlers) Unsubscribe(ctx context.Context, message *tgbotapi.Message) error {
	removed, err := h.Subscriptions.Unsubscribe(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	if !removed {
		return h.botAPI.SendHTML(message.Chat.ID, "Вы ни на что не подписаны.")
	}
	return h.botAPI.SendHTML(message.Chat.ID, "🔕 Подписка отменена.")
}

// Groups обрабатывает команду /groups
func (h *Handlers) Groups(ctx context.Context, message *tgbotapi.Message) error {
	current, err := h.Subscriptions.GroupOf(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	counts, err := h.Subscriptions.Counts(ctx)
	if err != nil {
		return err
	}
	return h.botAPI.SendHTML(message.Chat.ID, formatter.GroupList(h.Timetable.KnownGroups(), counts, current))
}

// Default обрабатывает команду /default [день] [группа]
func (h *Handlers) Default(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())

	weekday, hasWeekday := time.Sunday, false
	if len(args) > 0 {
		if d, err := defaults.ParseWeekday(args[0]); err == nil {
			weekday, hasWeekday = d, true
			args = args[1:]
		}
	}

	group, err := h.resolveGroup(ctx, chatID, strings.Join(args, " "))
	if err != nil {
		return h.groupError(chatID, err)
	}

	if !hasWeekday {
		text := fmt.Sprintf("Обычное расписание группы <b>%s</b>. Выберите день:", group)
		return h.botAPI.SendHTMLWithKeyboard(chatID, text, h.Keyboard.Weekdays(group))
	}
	return h.botAPI.SendHTML(chatID, h.defaultsText(weekday, group))
}

func (h *Handlers) defaultsText(weekday time.Weekday, group string) string {
	g, ok := h.Timetable.Schedule().Day(weekday, group)
	if !ok {
		return fmt.Sprintf("Для группы <b>%s</b> нет обычного расписания на %s.",
			group, strings.ToLower(formatter.WeekdayName(weekday)))
	}
	return formatter.Defaults(weekday, g)
}

// ICal обрабатывает команду /ical [today|next] [группа]
func (h *Handlers) ICal(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())

	mode := timetable.Today
	if len(args) > 0 {
		if m, err := timetable.ParseFetchMode(args[0]); err == nil {
			mode = m
			args = args[1:]
		}
	}

	group, err := h.resolveGroup(ctx, chatID, strings.Join(args, " "))
	if err != nil {
		return h.groupError(chatID, err)
	}

	snapshot, err := h.Timetable.Snapshot(ctx, mode)
	switch {
	case parser.IsNotYet(err):
		return h.botAPI.SendHTML(chatID, formatter.NotYet(mode))
	case err != nil:
		h.logger.Error("Failed to get snapshot", zap.Stringer("mode", mode), zap.Error(err))
		return h.botAPI.SendHTML(chatID, loadFailedText)
	}

	if _, ok := snapshot.Group(group); !ok {
		return h.botAPI.SendHTML(chatID, formatter.GroupMissing(snapshot, group))
	}

	var buf bytes.Buffer
	if err := exporter.WriteICS(&buf, snapshot, group, h.Bells, h.Timetable.Location()); err != nil {
		return fmt.Errorf("failed to export calendar: %w", err)
	}

	name := fmt.Sprintf("%s_%s.ics", group, snapshot.Date.Format("2006-01-02"))
	caption := fmt.Sprintf("📆 %s, %s", group, formatter.DateLine(snapshot.Date, snapshot.IsWeekEven))
	return h.botAPI.SendDocument(chatID, name, buf.Bytes(), caption)
}

// Unknown обрабатывает неизвестные команды
func (h *Handlers) Unknown(_ context.Context, message *tgbotapi.Message) error {
	return h.botAPI.SendHTML(message.Chat.ID, "Неизвестная команда. Используйте /help для получения справки.")
}

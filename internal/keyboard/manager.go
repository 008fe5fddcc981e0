// Package keyboard строит inline-клавиатуры бота и разбирает данные нажатых кнопок.
package keyboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"maiq/internal/domain/timetable"
	"maiq/internal/formatter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Действия кнопок
const (
	ActionSubscribe = "sub"
	ActionDefaults  = "def"
	ActionDay       = "day"
)

// groupsPerRow - кнопок групп в одном ряду
const groupsPerRow = 3

// callbackLimit - ограничение Telegram на callback_data в байтах
const callbackLimit = 64

// Callback - разобранные данные кнопки: действие и аргументы
type Callback struct {
	Action string
	Args   []string
}

// Manager строит клавиатуры. Клавиатура дней недели строится один раз.
type Manager struct {
	weekdays []time.Weekday
}

// NewManager создает менеджер клавиатур для дней недели, на которые есть обычное расписание
func NewManager(weekdays []time.Weekday) *Manager {
	return &Manager{weekdays: weekdays}
}

// Groups возвращает клавиатуру выбора группы для подписки. Текущая группа отмечена.
func (m *Manager) Groups(groups []string, current string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, g := range groups {
		data := Data(ActionSubscribe, g)
		if len(data) > callbackLimit {
			continue
		}

		label := g
		if g == current {
			label = "✅ " + g
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		if len(row) == groupsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Weekdays возвращает клавиатуру дней недели для обычного расписания группы
func (m *Manager) Weekdays(group string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range m.weekdays {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			formatter.WeekdayName(d),
			Data(ActionDefaults, strconv.Itoa(int(d)), group),
		))
		if len(row) == groupsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Days возвращает кнопки переключения между сегодня и следующим днем
func (m *Manager) Days(group string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📅 Сегодня", Data(ActionDay, timetable.Today.String(), group)),
		tgbotapi.NewInlineKeyboardButtonData("➡️ Следующий день", Data(ActionDay, timetable.Next.String(), group)),
	))
}

// Data собирает callback_data из действия и аргументов
func Data(action string, args ...string) string {
	return strings.Join(append([]string{action}, args...), "_")
}

// ParseCallback разбирает callback_data
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, "_")
	cb := Callback{Action: parts[0], Args: parts[1:]}

	want := 0
	switch cb.Action {
	case ActionSubscribe:
		want = 1
	case ActionDefaults, ActionDay:
		want = 2
	default:
		return Callback{}, fmt.Errorf("unknown callback action: %q", data)
	}

	if len(cb.Args) != want {
		return Callback{}, fmt.Errorf("callback %q: expected %d arguments, got %d", data, want, len(cb.Args))
	}
	for _, a := range cb.Args {
		if a == "" {
			return Callback{}, fmt.Errorf("callback %q: empty argument", data)
		}
	}
	return cb, nil
}

// Weekday возвращает день недели из аргументов кнопки обычного расписания
func (c Callback) Weekday() (time.Weekday, error) {
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n < int(time.Sunday) || n > int(time.Saturday) {
		return time.Sunday, fmt.Errorf("invalid weekday in callback: %q", c.Args[0])
	}
	return time.Weekday(n), nil
}

// Package formatter готовит тексты сообщений бота в разметке Telegram HTML.
package formatter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "понедельник",
	time.Tuesday:   "вторник",
	time.Wednesday: "среда",
	time.Thursday:  "четверг",
	time.Friday:    "пятница",
	time.Saturday:  "суббота",
	time.Sunday:    "воскресенье",
}

var monthNames = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// WeekdayName возвращает название дня недели с заглавной буквы
func WeekdayName(w time.Weekday) string {
	return cases.Title(language.Russian).String(weekdayNames[w])
}

// ParityName возвращает название недели: числитель (нечетная) или знаменатель (четная)
func ParityName(isEven bool) string {
	if isEven {
		return "знаменатель"
	}
	return "числитель"
}

// ModeName возвращает название режима для сообщений
func ModeName(mode timetable.FetchMode) string {
	if mode == timetable.Next {
		return "следующий день"
	}
	return "сегодня"
}

// DateLine возвращает строку вида "Понедельник, 2 сентября (числитель)"
func DateLine(date time.Time, isEven bool) string {
	return fmt.Sprintf("%s, %d %s (%s)",
		WeekdayName(date.Weekday()), date.Day(), monthNames[date.Month()-1], ParityName(isEven))
}

// Group форматирует расписание группы из снимка
func Group(s *timetable.Snapshot, g *timetable.Group) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s</b>\n%s\n\n", esc(g.Name), DateLine(s.Date, s.IsWeekEven))
	if len(g.Lessons) == 0 {
		sb.WriteString("Пар нет 🎉\n")
	}
	for _, l := range g.Lessons {
		writeLesson(&sb, l)
	}

	fmt.Fprintf(&sb, "\n<i>обновлено %s</i>", s.ParsedAt.Format("02.01 15:04"))
	return sb.String()
}

// Change форматирует уведомление об изменении расписания группы
func Change(mode timetable.FetchMode, s *timetable.Snapshot, name string) string {
	header := fmt.Sprintf("🔔 Изменения в расписании на %s\n\n", ModeName(mode))

	g, ok := s.Group(name)
	if !ok {
		return header + fmt.Sprintf("Группа <b>%s</b> больше не указана в расписании на %s.",
			esc(name), DateLine(s.Date, s.IsWeekEven))
	}
	return header + Group(s, g)
}

// NotYet - расписание режима еще не опубликовано
func NotYet(mode timetable.FetchMode) string {
	return fmt.Sprintf("⏳ Расписание на %s еще не опубликовано. Загляните позже.", ModeName(mode))
}

// GroupMissing - группы нет в опубликованном расписании
func GroupMissing(s *timetable.Snapshot, name string) string {
	return fmt.Sprintf("Группы <b>%s</b> нет в расписании на %s.",
		esc(name), DateLine(s.Date, s.IsWeekEven))
}

// Defaults форматирует обычное расписание группы на день недели
func Defaults(weekday time.Weekday, g defaults.Group) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s</b>\nОбычное расписание: %s\n\n", esc(g.Name), WeekdayName(weekday))
	if len(g.Lessons) == 0 {
		sb.WriteString("Пар нет\n")
	}
	for _, l := range g.Lessons {
		lesson := timetable.Lesson{Num: l.Num, Name: l.Name}
		if l.Subgroup != nil {
			lesson.Subgroup = *l.Subgroup
		}
		if l.Teacher != nil {
			lesson.Teacher = *l.Teacher
		}
		if l.Classroom != nil {
			lesson.Classroom = *l.Classroom
		}
		if l.IsEven != nil {
			lesson.Name = fmt.Sprintf("%s [%s]", lesson.Name, shortParity(*l.IsEven))
		}
		writeLesson(&sb, lesson)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// GroupList форматирует список отслеживаемых групп
func GroupList(names []string, counts map[string]int, current string) string {
	if len(names) == 0 {
		return "Список групп пока пуст."
	}

	var sb strings.Builder
	sb.WriteString("<b>Группы</b>\n\n")
	for _, name := range names {
		marker := "•"
		if name == current {
			marker = "✅"
		}
		fmt.Fprintf(&sb, "%s %s", marker, esc(name))
		if n := counts[name]; n > 0 {
			fmt.Fprintf(&sb, " <i>(%d)</i>", n)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeLesson(sb *strings.Builder, l timetable.Lesson) {
	fmt.Fprintf(sb, "<b>%d.</b> %s", l.Num, esc(l.Name))
	if l.Subgroup > 0 {
		fmt.Fprintf(sb, " <i>(п/г %d)</i>", l.Subgroup)
	}
	sb.WriteString("\n")

	var details []string
	if l.Teacher != "" {
		details = append(details, "👤 "+esc(l.Teacher))
	}
	if l.Classroom != "" {
		details = append(details, "🚪 "+esc(l.Classroom))
	}
	if len(details) > 0 {
		sb.WriteString("    " + strings.Join(details, " · ") + "\n")
	}
}

func shortParity(isEven bool) string {
	if isEven {
		return "знам."
	}
	return "числ."
}

func esc(s string) string {
	return html.EscapeString(s)
}

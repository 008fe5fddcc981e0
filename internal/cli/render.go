package cli

import (
	"fmt"
	"strconv"
	"strings"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/formatter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var lessonHeaders = []string{"№", "Пара", "П/г", "Преподаватель", "Ауд."}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderSnapshot рисует расписание групп снимка таблицами
func renderSnapshot(s *timetable.Snapshot, groups []*timetable.Group) string {
	var sb strings.Builder
	sb.WriteString(dateStyle.Render(formatter.DateLine(s.Date, s.IsWeekEven)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("uid %s, обновлено %s", s.UID, s.ParsedAt.Format("02.01 15:04"))))
	sb.WriteString("\n")

	for _, g := range groups {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render(g.Name))
		sb.WriteString("\n")
		if len(g.Lessons) == 0 {
			sb.WriteString(dimStyle.Render("Пар нет"))
			sb.WriteString("\n")
			continue
		}

		t := newTable(lessonHeaders...)
		for _, l := range g.Lessons {
			t.Row(strconv.Itoa(l.Num), l.Name, subgroup(l.Subgroup), l.Teacher, l.Classroom)
		}
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderDefaults рисует обычное расписание групп на день недели
func renderDefaults(day string, groups []defaults.Group) string {
	var sb strings.Builder
	sb.WriteString(dateStyle.Render("Обычное расписание: " + day))
	sb.WriteString("\n")

	for _, g := range groups {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render(g.Name))
		sb.WriteString("\n")

		t := newTable(append(lessonHeaders, "Неделя")...)
		for _, l := range g.Lessons {
			t.Row(strconv.Itoa(l.Num), l.Name, subgroup(deref(l.Subgroup)),
				derefString(l.Teacher), derefString(l.Classroom), parity(l.IsEven))
		}
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	}
	return sb.String()
}

func subgroup(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parity(isEven *bool) string {
	if isEven == nil {
		return "каждая"
	}
	return formatter.ParityName(*isEven)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

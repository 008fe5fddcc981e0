package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	groupPattern      = regexp.MustCompile(`^[А-Яа-яЁё]{1,2}\d-\d{2}`)
	slotListPattern   = regexp.MustCompile(`^[\d,\s]*\d[\d,\s]*$`)
	annotationPattern = regexp.MustCompile(`\([^)]*\)`)
)

// subgroupMarker - отметка подгруппы в ячейке группы ("Ит1-22 1 п/г")
const subgroupMarker = "п/г"

// classroomPlaceholders - значения ячейки аудитории, означающие ее отсутствие
var classroomPlaceholders = map[string]bool{
	"":  true,
	"-": true,
	"–": true,
	"—": true,
}

// TokenizedRow - поля, выделенные из одной строки таблицы.
// Has* различает "ячейки не было" и пустое значение; пустые Teacher и
// Classroom означают отсутствие.
type TokenizedRow struct {
	Group       string
	HasGroup    bool
	Subgroup    int
	HasSubgroup bool
	Slots       string
	HasSlots    bool
	Name        string
	HasName     bool
	Teacher     string
	Classroom   string
}

// Empty сообщает, что в строке нет ни одного поля
func (r TokenizedRow) Empty() bool {
	return !r.HasGroup && !r.HasSubgroup && !r.HasSlots && !r.HasName &&
		r.Teacher == "" && r.Classroom == ""
}

// hasLesson сообщает, что строка несет данные пары, а не только имя группы
func (r TokenizedRow) hasLesson() bool {
	return r.HasSlots || r.HasName || r.Teacher != "" || r.Classroom != ""
}

// Tokenize раскладывает ячейки строки по полям.
// Порядок: группа, номера пар, "название, преподаватель", аудитория;
// группа и номера пар необязательны и распознаются по шаблону.
func Tokenize(cells []string) TokenizedRow {
	tokens := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			tokens = append(tokens, c)
		}
	}

	var row TokenizedRow
	next := func() (string, bool) {
		if len(tokens) == 0 {
			return "", false
		}
		t := tokens[0]
		tokens = tokens[1:]
		return t, true
	}
	peek := func() string {
		if len(tokens) == 0 {
			return ""
		}
		return tokens[0]
	}

	if groupPattern.MatchString(peek()) {
		cell, _ := next()
		row.Group, row.Subgroup, row.HasSubgroup = splitGroup(cell)
		row.HasGroup = true
	}

	if IsSlotList(peek()) {
		row.Slots, _ = next()
		row.HasSlots = true
	}

	if cell, ok := next(); ok {
		name, teacher := splitTeacher(cell)
		row.Name, row.HasName = name, name != ""
		row.Teacher = teacher
	}

	if cell, ok := next(); ok {
		if !classroomPlaceholders[cell] {
			row.Classroom = cell
		}
	}

	return row
}

// IsSlotList проверяет, похожа ли ячейка на список номеров пар ("1,2", "3 (2ч)")
func IsSlotList(cell string) bool {
	if cell == "" {
		return false
	}
	stripped := annotationPattern.ReplaceAllString(cell, "")
	return slotListPattern.MatchString(stripped)
}

// splitGroup делит ячейку группы на имя и номер подгруппы
func splitGroup(cell string) (string, int, bool) {
	fields := strings.Fields(cell)
	name := fields[0]
	if len(fields) == 1 {
		return name, 0, false
	}

	rest := strings.Join(fields[1:], " ")
	rest = strings.ReplaceAll(strings.ToLower(rest), subgroupMarker, "")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return name, 0, false
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return name, 0, false
	}
	return name, n, true
}

// splitTeacher делит "название, преподаватель" по последней запятой
func splitTeacher(cell string) (string, string) {
	i := strings.LastIndex(cell, ",")
	if i < 0 {
		return strings.TrimSpace(cell), ""
	}
	return strings.TrimSpace(cell[:i]), strings.TrimSpace(cell[i+1:])
}

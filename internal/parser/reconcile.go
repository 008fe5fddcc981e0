package parser

import (
	"strconv"
	"strings"
)

// Cursor - состояние переноса значений между строками таблицы.
// Объединенные по вертикали ячейки при извлечении текста теряются,
// поэтому пропущенные группа, номера пар и название берутся из курсора.
type Cursor struct {
	Row      int
	Group    string
	Subgroup int
	Slots    []int
	Name     string
}

// LessonEntry - пара, восстановленная из одной строки таблицы.
// Num == 0 означает строку без номера пары (пояснительный текст).
type LessonEntry struct {
	Row       int
	Group     string
	Num       int
	Name      string
	Subgroup  int
	Teacher   string
	Classroom string
}

// Reconcile сворачивает строки в список пар
func Reconcile(rows []TokenizedRow) []LessonEntry {
	var (
		cursor  Cursor
		entries []LessonEntry
	)
	for _, row := range rows {
		var produced []LessonEntry
		cursor, produced = Step(cursor, row)
		entries = append(entries, produced...)
	}
	return entries
}

// Step обрабатывает одну строку: возвращает новое состояние курсора и пары строки.
// Курсор не изменяется на месте.
func Step(c Cursor, row TokenizedRow) (Cursor, []LessonEntry) {
	index := c.Row
	next := c
	next.Row++

	if row.Empty() {
		return next, nil
	}

	switch {
	case row.HasGroup && row.Group != c.Group:
		next.Group = row.Group
		next.Subgroup = row.Subgroup
		next.Slots = nil
		next.Name = ""
	case row.HasGroup:
		// группа без подгруппы означает пару всей группы
		next.Subgroup = row.Subgroup
	case c.Group == "":
		return next, nil
	}

	if row.HasSlots {
		next.Slots = parseSlots(row.Slots, lastSlot(next.Slots))
	}
	if row.HasName {
		next.Name = row.Name
	}

	if !row.hasLesson() || next.Name == "" {
		return next, nil
	}

	slots := next.Slots
	if len(slots) == 0 {
		slots = []int{0}
	}

	entries := make([]LessonEntry, 0, len(slots))
	for _, num := range slots {
		entries = append(entries, LessonEntry{
			Row:       index,
			Group:     next.Group,
			Num:       num,
			Name:      next.Name,
			Subgroup:  next.Subgroup,
			Teacher:   row.Teacher,
			Classroom: row.Classroom,
		})
	}

	return next, entries
}

// parseSlots разбирает "1,2,3". Нечисловой элемент заменяется последним
// известным номером пары; пустые элементы ("1,2,") пропускаются.
func parseSlots(spec string, last int) []int {
	items := strings.Split(spec, ",")
	slots := make([]int, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(annotationPattern.ReplaceAllString(item, "")))
		if err != nil {
			slots = append(slots, last)
			continue
		}

		last = n
		slots = append(slots, n)
	}

	return slots
}

func lastSlot(slots []int) int {
	if len(slots) == 0 {
		return 0
	}
	return slots[len(slots)-1]
}

package parser

import (
	"sort"
	"strings"
	"time"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
)

// Заглушки в названии пары
const (
	// RegularSchedule - пара идет по обычному расписанию
	RegularSchedule = "По расписанию"
	// NoLesson - пары нет
	NoLesson = "Нет"
	// SelfStudy - день самостоятельной работы
	SelfStudy = "День самостоятельной работы"
)

// Assembler раскладывает восстановленные пары по группам
type Assembler struct {
	schedule *defaults.Schedule
	groups   []string
}

// NewAssembler создает сборщик. Непустой список groups ограничивает
// результат этими группами и задает их порядок; пустой означает
// "все группы в порядке появления".
func NewAssembler(schedule *defaults.Schedule, groups []string) *Assembler {
	tracked := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		tracked = append(tracked, g)
	}

	return &Assembler{
		schedule: schedule,
		groups:   tracked,
	}
}

// Groups возвращает отслеживаемые группы
func (a *Assembler) Groups() []string {
	groups := make([]string, len(a.groups))
	copy(groups, a.groups)
	return groups
}

// Assemble собирает группы из пар. weekday и isEven используются для
// подстановки обычного расписания вместо "По расписанию".
func (a *Assembler) Assemble(entries []LessonEntry, weekday time.Weekday, isEven bool) []timetable.Group {
	groups := make([]timetable.Group, 0, len(a.groups))
	index := make(map[string]int, len(a.groups))
	for _, name := range a.groups {
		index[name] = len(groups)
		groups = append(groups, timetable.Group{Name: name, Lessons: []timetable.Lesson{}})
	}
	discover := len(a.groups) == 0

	type rowKey struct {
		group string
		row   int
	}
	selfStudy := make(map[rowKey]bool)

	for _, e := range entries {
		i, ok := index[e.Group]
		if !ok {
			if !discover {
				continue
			}
			i = len(groups)
			index[e.Group] = i
			groups = append(groups, timetable.Group{Name: e.Group, Lessons: []timetable.Lesson{}})
		}

		if e.Num <= 0 || isPlaceholder(e.Name, NoLesson) {
			continue
		}

		var lesson timetable.Lesson
		switch {
		case isPlaceholder(e.Name, SelfStudy):
			key := rowKey{group: e.Group, row: e.Row}
			if selfStudy[key] {
				continue
			}
			selfStudy[key] = true
			lesson = e.lesson()
		case isPlaceholder(e.Name, RegularSchedule):
			lesson = a.overlay(e, weekday, isEven)
		default:
			lesson = e.lesson()
		}

		groups[i].Lessons = append(groups[i].Lessons, lesson)
	}

	for i := range groups {
		sort.SliceStable(groups[i].Lessons, func(x, y int) bool {
			return groups[i].Lessons[x].Num < groups[i].Lessons[y].Num
		})
		groups[i].UID = groups[i].ComputeUID()
	}

	return groups
}

// overlay подставляет пару из обычного расписания. Аудитория из таблицы
// важнее аудитории по умолчанию.
func (a *Assembler) overlay(e LessonEntry, weekday time.Weekday, isEven bool) timetable.Lesson {
	lesson, ok := a.schedule.Lookup(weekday, e.Group, e.Num, isEven)
	if !ok {
		return e.lesson()
	}

	if e.Classroom != "" {
		lesson.Classroom = e.Classroom
	}
	if lesson.Subgroup == 0 {
		lesson.Subgroup = e.Subgroup
	}
	return lesson
}

func (e LessonEntry) lesson() timetable.Lesson {
	return timetable.Lesson{
		Num:       e.Num,
		Name:      e.Name,
		Subgroup:  e.Subgroup,
		Teacher:   e.Teacher,
		Classroom: e.Classroom,
	}
}

func isPlaceholder(name, placeholder string) bool {
	return strings.EqualFold(strings.TrimSpace(name), placeholder)
}

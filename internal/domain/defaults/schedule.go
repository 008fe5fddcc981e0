package defaults

import (
	"time"

	"maiq/internal/domain/timetable"
)

// Schedule - неизменяемый набор обычного расписания по дням недели.
// Создается один раз при старте и безопасен для конкурентного чтения.
type Schedule struct {
	days map[time.Weekday]Day
}

// New создает расписание из готовых дней. Повторный день заменяет предыдущий.
func New(days ...Day) *Schedule {
	s := &Schedule{days: make(map[time.Weekday]Day, len(days))}
	for _, d := range days {
		s.days[time.Weekday(d.Day)] = d
	}
	return s
}

// Lookup ищет замену для пары "По расписанию".
// Отсутствие замены - нормальный результат, а не ошибка.
func (s *Schedule) Lookup(weekday time.Weekday, group string, num int, isEven bool) (timetable.Lesson, bool) {
	g, ok := s.Day(weekday, group)
	if !ok {
		return timetable.Lesson{}, false
	}

	for _, l := range g.Lessons {
		if l.Matches(num, isEven) {
			return l.toLesson(num), true
		}
	}
	return timetable.Lesson{}, false
}

// Day возвращает обычное расписание группы на день недели
func (s *Schedule) Day(weekday time.Weekday, group string) (Group, bool) {
	if s == nil {
		return Group{}, false
	}

	day, ok := s.days[weekday]
	if !ok {
		return Group{}, false
	}

	for _, g := range day.Groups {
		if g.Name == group {
			return g, true
		}
	}
	return Group{}, false
}

// Lessons возвращает пары группы на день недели с учетом четности недели
func (s *Schedule) Lessons(weekday time.Weekday, group string, isEven bool) []timetable.Lesson {
	g, ok := s.Day(weekday, group)
	if !ok {
		return nil
	}

	lessons := make([]timetable.Lesson, 0, len(g.Lessons))
	for _, l := range g.Lessons {
		if l.IsEven != nil && *l.IsEven != isEven {
			continue
		}
		lessons = append(lessons, l.toLesson(l.Num))
	}
	return lessons
}

// Weekdays возвращает загруженные дни недели
func (s *Schedule) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := s.days[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

// GroupNames возвращает имена групп, для которых есть обычное расписание на день
func (s *Schedule) GroupNames(weekday time.Weekday) []string {
	day, ok := s.days[weekday]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(day.Groups))
	for _, g := range day.Groups {
		names = append(names, g.Name)
	}
	return names
}

func (l Lesson) toLesson(num int) timetable.Lesson {
	lesson := timetable.Lesson{
		Num:  num,
		Name: l.Name,
	}
	if l.Subgroup != nil {
		lesson.Subgroup = *l.Subgroup
	}
	if l.Teacher != nil {
		lesson.Teacher = *l.Teacher
	}
	if l.Classroom != nil {
		lesson.Classroom = *l.Classroom
	}
	return lesson
}

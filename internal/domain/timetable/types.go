// Package timetable содержит модель расписания: снимок, группы и пары.
package timetable

import (
	"time"
)

// Lesson представляет одну пару в расписании группы
type Lesson struct {
	Num       int    `json:"num"`
	Name      string `json:"name"`
	Subgroup  int    `json:"subgroup,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Classroom string `json:"classroom,omitempty"`
}

// Group представляет расписание одной группы на день
type Group struct {
	UID     string   `json:"uid"`
	Name    string   `json:"name"`
	Lessons []Lesson `json:"lessons"`
}

// NewGroup создает пустую группу с вычисленным uid
func NewGroup(name string) Group {
	g := Group{Name: name, Lessons: []Lesson{}}
	g.UID = g.ComputeUID()
	return g
}

// Snapshot представляет разобранную таблицу расписания на конкретную дату
type Snapshot struct {
	Date       time.Time `json:"date"`
	IsWeekEven bool      `json:"is_week_even"`
	ParsedAt   time.Time `json:"parsed_at"`
	UID        string    `json:"uid"`
	Groups     []Group   `json:"groups"`
}

// NewSnapshot создает снимок и вычисляет его uid
func NewSnapshot(groups []Group, date time.Time, isEven bool, parsedAt time.Time) *Snapshot {
	s := &Snapshot{
		Date:       date,
		IsWeekEven: isEven,
		ParsedAt:   parsedAt,
		Groups:     groups,
	}
	s.UID = s.ComputeUID()
	return s
}

// Group возвращает группу по имени
func (s *Snapshot) Group(name string) (*Group, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Groups {
		if s.Groups[i].Name == name {
			return &s.Groups[i], true
		}
	}
	return nil, false
}

// Age возвращает возраст снимка относительно now
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.ParsedAt)
}

// TinySnapshot представляет снимок, урезанный до одной группы
type TinySnapshot struct {
	UID      string    `json:"uid"`
	Date     time.Time `json:"date"`
	ParsedAt time.Time `json:"parsed_at"`
	Group    *Group    `json:"group,omitempty"`
}

// Tiny возвращает снимок только с указанной группой
func (s *Snapshot) Tiny(name string) TinySnapshot {
	tiny := TinySnapshot{
		UID:      s.UID,
		Date:     s.Date,
		ParsedAt: s.ParsedAt,
	}
	if g, ok := s.Group(name); ok {
		copied := *g
		tiny.Group = &copied
	}
	return tiny
}

// IsWeekEven определяет четность недели по номеру ISO-недели
func IsWeekEven(date time.Time) bool {
	_, week := date.ISOWeek()
	return week%2 == 0
}

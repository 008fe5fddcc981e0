// Package defaults содержит "обычное" расписание, которое подставляется
// вместо ячеек "По расписанию".
package defaults

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday - день недели в JSON-документах обычного расписания.
// Принимает английские ("Monday", "Mon") и русские ("Понедельник") названия.
type Weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"monday":      time.Monday,
	"mon":         time.Monday,
	"понедельник": time.Monday,
	"tuesday":     time.Tuesday,
	"tue":         time.Tuesday,
	"вторник":     time.Tuesday,
	"wednesday":   time.Wednesday,
	"wed":         time.Wednesday,
	"среда":       time.Wednesday,
	"thursday":    time.Thursday,
	"thu":         time.Thursday,
	"четверг":     time.Thursday,
	"friday":      time.Friday,
	"fri":         time.Friday,
	"пятница":     time.Friday,
	"saturday":    time.Saturday,
	"sat":         time.Saturday,
	"суббота":     time.Saturday,
	"sunday":      time.Sunday,
	"sun":         time.Sunday,
	"воскресенье": time.Sunday,
}

// ParseWeekday разбирает название дня недели
func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %q", s)
}

// UnmarshalJSON реализует json.Unmarshaler
func (w *Weekday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("weekday must be a string: %w", err)
	}
	d, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*w = Weekday(d)
	return nil
}

// MarshalJSON реализует json.Marshaler
func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Weekday(w).String())
}

// Day представляет обычное расписание одного дня недели
type Day struct {
	Day    Weekday `json:"day"`
	Groups []Group `json:"groups"`
}

// Group представляет обычное расписание группы
type Group struct {
	Name    string   `json:"name"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson представляет пару обычного расписания.
// IsEven == nil означает, что пара стоит и на четной, и на нечетной неделе.
type Lesson struct {
	Num       int     `json:"num"`
	Name      string  `json:"name"`
	IsEven    *bool   `json:"is_even,omitempty"`
	Subgroup  *int    `json:"subgroup,omitempty"`
	Teacher   *string `json:"teacher,omitempty"`
	Classroom *string `json:"classroom,omitempty"`
}

// Matches проверяет номер пары и четность недели
func (l Lesson) Matches(num int, isEven bool) bool {
	if l.Num != num {
		return false
	}
	return l.IsEven == nil || *l.IsEven == isEven
}

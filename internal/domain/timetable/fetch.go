package timetable

import (
	"fmt"
	"strings"
	"time"
)

// FetchMode определяет, какую страницу расписания загружать
type FetchMode int

const (
	// Today - расписание на сегодня
	Today FetchMode = iota
	// Next - расписание на следующий учебный день
	Next
)

// FetchModes - все режимы в порядке обхода
var FetchModes = []FetchMode{Today, Next}

// String возвращает имя режима
func (m FetchMode) String() string {
	switch m {
	case Today:
		return "today"
	case Next:
		return "next"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseFetchMode разбирает имя режима
func ParseFetchMode(s string) (FetchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "сегодня", "":
		return Today, nil
	case "next", "tomorrow", "завтра":
		return Next, nil
	default:
		return Today, fmt.Errorf("unknown fetch mode: %s", s)
	}
}

// DefaultDate возвращает дату, на которую рассчитана страница режима,
// если в заголовке таблицы дата не найдена.
// В воскресенье "сегодня" указывает на субботу, в субботу "следующий" - на понедельник.
func (m FetchMode) DefaultDate(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch m {
	case Next:
		if today.Weekday() == time.Saturday {
			return today.AddDate(0, 0, 2)
		}
		return today.AddDate(0, 0, 1)
	default:
		if today.Weekday() == time.Sunday {
			return today.AddDate(0, 0, -1)
		}
		return today
	}
}

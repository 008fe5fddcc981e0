// Package exporter выгружает расписание группы во внешние форматы.
package exporter

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBells - звонки по умолчанию, по одному интервалу на номер пары начиная с первой
const DefaultBells = "08:30-10:00;10:10-11:40;12:20-13:50;14:00-15:30;15:40-17:10;17:20-18:50"

// Bell - время начала и конца пары от полуночи
type Bell struct {
	Start time.Duration
	End   time.Duration
}

// Bells - расписание звонков, индекс 0 соответствует первой паре
type Bells []Bell

// ParseBells разбирает строку вида "08:30-10:00;10:10-11:40"
func ParseBells(raw string) (Bells, error) {
	var bells Bells
	for i, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		start, end, ok := strings.Cut(item, "-")
		if !ok {
			return nil, fmt.Errorf("bell %d: expected HH:MM-HH:MM, got %q", i+1, item)
		}

		from, err := parseClock(start)
		if err != nil {
			return nil, fmt.Errorf("bell %d: %w", i+1, err)
		}
		to, err := parseClock(end)
		if err != nil {
			return nil, fmt.Errorf("bell %d: %w", i+1, err)
		}
		if to <= from {
			return nil, fmt.Errorf("bell %d: end %s is not after start %s", i+1, end, start)
		}
		if len(bells) > 0 && from < bells[len(bells)-1].End {
			return nil, fmt.Errorf("bell %d overlaps the previous one", i+1)
		}

		bells = append(bells, Bell{Start: from, End: to})
	}

	if len(bells) == 0 {
		return nil, fmt.Errorf("no bells defined")
	}
	return bells, nil
}

// At возвращает начало и конец пары num в день date
func (b Bells) At(num int, date time.Time) (time.Time, time.Time, bool) {
	if num < 1 || num > len(b) {
		return time.Time{}, time.Time{}, false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	bell := b[num-1]
	return day.Add(bell.Start), day.Add(bell.End), true
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

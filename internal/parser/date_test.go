package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractDate(t *testing.T) {
	ref := day(2024, time.September, 5)

	tests := []struct {
		name string
		text string
		ref  time.Time
		want time.Time
		ok   bool
	}{
		{"explicit year", "Расписание на 1 сентября 2024 года", ref, day(2024, time.September, 1), true},
		{"year with suffix", "2 сентября 2024г.", ref, day(2024, time.September, 2), true},
		{"year from reference", "Изменения на 9 сентября", ref, day(2024, time.September, 9), true},
		{"case insensitive month", "9 СЕНТЯБРЯ", ref, day(2024, time.September, 9), true},
		{"punctuation around", "(9 сентября,) среда", ref, day(2024, time.September, 9), true},
		{"recent past stays in year", "31 августа", ref, day(2024, time.August, 31), true},
		{"rollover to next year", "3 января", day(2024, time.December, 28), day(2025, time.January, 3), true},
		{"invalid date skipped", "31 февраля, 2 марта", day(2024, time.March, 10), day(2024, time.March, 2), true},
		{"inside half year window", "6 марта", ref, day(2024, time.March, 6), true},
		{"window boundary", "5 марта", ref, day(2024, time.March, 5), true},
		{"outside half year window", "4 марта", ref, day(2025, time.March, 4), true},
		{"first match wins", "10 октября и 11 октября", ref, day(2024, time.October, 10), true},
		{"unknown month", "10 брюмера", ref, time.Time{}, false},
		{"no date", "Расписание занятий", ref, time.Time{}, false},
		{"empty", "", ref, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.text, tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseHeader(t *testing.T) {
	h := ParseHeader("1 сентября 2024 Понедельник (числитель)", day(2024, time.August, 30))

	require.True(t, h.HasDate)
	assert.Equal(t, day(2024, time.September, 1), h.Date)
	require.True(t, h.HasWeekday)
	assert.Equal(t, time.Monday, h.Weekday)
	require.True(t, h.HasParity)
	assert.False(t, h.IsEven)

	weekday, isEven := h.Resolve(h.Date)
	assert.Equal(t, time.Monday, weekday)
	assert.False(t, isEven)
}

func TestParseHeader_Denominator(t *testing.T) {
	h := ParseHeader("Знаменатель. Среда, 4 сентября", day(2024, time.September, 1))

	require.True(t, h.HasParity)
	assert.True(t, h.IsEven)
	assert.Equal(t, time.Wednesday, h.Weekday)
	assert.Equal(t, day(2024, time.September, 4), h.Date)
}

func TestHeader_ResolveFromDate(t *testing.T) {
	var h Header
	// 9 сентября 2024 - понедельник 37-й ISO-недели
	weekday, isEven := h.Resolve(day(2024, time.September, 9))
	assert.Equal(t, time.Monday, weekday)
	assert.False(t, isEven)
}

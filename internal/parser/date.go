package parser

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"maiq/internal/domain/timetable"
)

var months = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

var weekdays = map[string]time.Weekday{
	"понедельник": time.Monday,
	"вторник":     time.Tuesday,
	"среда":       time.Wednesday,
	"среду":       time.Wednesday,
	"четверг":     time.Thursday,
	"пятница":     time.Friday,
	"пятницу":     time.Friday,
	"суббота":     time.Saturday,
	"субботу":     time.Saturday,
	"воскресенье": time.Sunday,
}

// rolloverWindow - насколько дата без года может отставать от опорной,
// прежде чем она будет отнесена к следующему году
const rolloverWindow = 6

// Header - сведения из заголовка таблицы
type Header struct {
	Date    time.Time
	HasDate bool

	Weekday    time.Weekday
	HasWeekday bool

	IsEven    bool
	HasParity bool
}

// ParseHeader ищет в тексте заголовка дату, день недели и отметку
// числитель/знаменатель. Отсутствие любого из них не является ошибкой.
func ParseHeader(text string, ref time.Time) Header {
	var h Header
	h.Date, h.HasDate = ExtractDate(text, ref)

	for _, token := range strings.Fields(text) {
		word := strings.ToLower(trimToken(token))

		if !h.HasWeekday {
			if wd, ok := weekdays[word]; ok {
				h.Weekday, h.HasWeekday = wd, true
				continue
			}
		}

		if !h.HasParity {
			switch {
			case strings.HasPrefix(word, "числител"):
				h.IsEven, h.HasParity = false, true
			case strings.HasPrefix(word, "знаменател"):
				h.IsEven, h.HasParity = true, true
			}
		}
	}

	return h
}

// merge дополняет заголовок полями, которых в нем не было
func (h Header) merge(other Header) Header {
	if !h.HasDate && other.HasDate {
		h.Date, h.HasDate = other.Date, true
	}
	if !h.HasWeekday && other.HasWeekday {
		h.Weekday, h.HasWeekday = other.Weekday, true
	}
	if !h.HasParity && other.HasParity {
		h.IsEven, h.HasParity = other.IsEven, true
	}
	return h
}

// Resolve возвращает день недели и четность для подстановки обычного
// расписания: значения из заголовка важнее вычисленных по дате.
func (h Header) Resolve(date time.Time) (time.Weekday, bool) {
	weekday := date.Weekday()
	if h.HasWeekday {
		weekday = h.Weekday
	}

	isEven := timetable.IsWeekEven(date)
	if h.HasParity {
		isEven = h.IsEven
	}

	return weekday, isEven
}

// ExtractDate ищет первую корректную дату вида "<день> <месяц> [<год>]".
// Без года берется год опорной даты; если дата оказывается более чем на
// полгода раньше опорной, она переносится на следующий год.
func ExtractDate(text string, ref time.Time) (time.Time, bool) {
	tokens := strings.Fields(text)

	for i := 0; i+1 < len(tokens); i++ {
		day, err := strconv.Atoi(trimToken(tokens[i]))
		if err != nil || day < 1 || day > 31 {
			continue
		}

		month, ok := months[strings.ToLower(trimToken(tokens[i+1]))]
		if !ok {
			continue
		}

		year, hasYear := 0, false
		if i+2 < len(tokens) {
			year, hasYear = parseYear(tokens[i+2])
		}
		if !hasYear {
			year = ref.Year()
		}

		date, ok := makeDate(year, month, day, ref.Location())
		if !ok {
			continue
		}

		if !hasYear && date.Before(ref.AddDate(0, -rolloverWindow, 0)) {
			if next, ok := makeDate(year+1, month, day, ref.Location()); ok {
				date = next
			}
		}

		return date, true
	}

	return time.Time{}, false
}

// makeDate отвергает несуществующие даты вроде 31 февраля
func makeDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}
	return date, true
}

// parseYear принимает "2024", "2024г." и похожие варианты
func parseYear(token string) (int, bool) {
	digits := token
	for i, r := range token {
		if !unicode.IsDigit(r) {
			digits = token[:i]
			break
		}
	}
	if len(digits) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return year, true
}

func trimToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

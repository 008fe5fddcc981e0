package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"maiq/internal/domain/timetable"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//maiq//timetable//RU"

// WriteICS выгружает пары группы из снимка в календарь iCalendar.
// Пары без звонка (номер больше числа звонков) пропускаются.
func WriteICS(w io.Writer, snapshot *timetable.Snapshot, group string, bells Bells, loc *time.Location) error {
	g, ok := snapshot.Group(group)
	if !ok {
		return fmt.Errorf("group %s is not in snapshot %s", group, snapshot.UID)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(group)
	cal.SetXWRTimezone(loc.String())

	// дата снимка - календарный день без привязки к поясу
	d := snapshot.Date
	date := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)

	for i, lesson := range g.Lessons {
		start, end, ok := bells.At(lesson.Num, date)
		if !ok {
			continue
		}

		event := cal.AddEvent(eventID(snapshot, g, i))
		event.SetDtStampTime(snapshot.ParsedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(summary(lesson))
		if lesson.Classroom != "" {
			event.SetLocation(lesson.Classroom)
		}
		if lesson.Teacher != "" {
			event.SetDescription(lesson.Teacher)
		}
	}

	return cal.SerializeTo(w)
}

func summary(l timetable.Lesson) string {
	if l.Subgroup > 0 {
		return fmt.Sprintf("%s (п/г %d)", l.Name, l.Subgroup)
	}
	return l.Name
}

// eventID стабилен для одного и того же расписания группы
func eventID(s *timetable.Snapshot, g *timetable.Group, i int) string {
	return strings.Join([]string{s.Date.Format("20060102"), g.UID, fmt.Sprint(i)}, "-") + "@maiq"
}

package formatter

import (
	"testing"
	"time"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"

	"github.com/stretchr/testify/assert"
)

func snapshot() *timetable.Snapshot {
	g := timetable.Group{Name: "Ит1-22", Lessons: []timetable.Lesson{
		{Num: 1, Name: "Математика", Teacher: "Иванов И.И.", Classroom: "101"},
		{Num: 2, Name: "Физика <лаб>", Subgroup: 2},
	}}
	g.UID = g.ComputeUID()
	return timetable.NewSnapshot(
		[]timetable.Group{g, timetable.NewGroup("Са1-21")},
		time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		false,
		time.Date(2024, 9, 1, 18, 30, 0, 0, time.UTC),
	)
}

func TestDateLine(t *testing.T) {
	assert.Equal(t, "Понедельник, 2 сентября (числитель)", DateLine(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), false))
	assert.Equal(t, "Суббота, 7 декабря (знаменатель)", DateLine(time.Date(2024, 12, 7, 0, 0, 0, 0, time.UTC), true))
}

func TestGroup(t *testing.T) {
	s := snapshot()
	g, _ := s.Group("Ит1-22")

	text := Group(s, g)
	assert.Contains(t, text, "<b>Ит1-22</b>")
	assert.Contains(t, text, "<b>1.</b> Математика\n    👤 Иванов И.И. · 🚪 101")
	assert.Contains(t, text, "Физика &lt;лаб&gt; <i>(п/г 2)</i>")
	assert.Contains(t, text, "обновлено 01.09 18:30")

	empty, _ := s.Group("Са1-21")
	assert.Contains(t, Group(s, empty), "Пар нет")
}

func TestChange(t *testing.T) {
	s := snapshot()

	assert.Contains(t, Change(timetable.Next, s, "Ит1-22"), "на следующий день")
	assert.Contains(t, Change(timetable.Today, s, "С1-21"), "больше не указана")
}

func TestDefaults(t *testing.T) {
	even := true
	room := "112"
	text := Defaults(time.Monday, defaults.Group{Name: "Ит1-22", Lessons: []defaults.Lesson{
		{Num: 3, Name: "История", IsEven: &even, Classroom: &room},
	}})

	assert.Contains(t, text, "Обычное расписание: Понедельник")
	assert.Contains(t, text, "История [знам.]")
	assert.Contains(t, text, "🚪 112")
}

func TestGroupList(t *testing.T) {
	assert.Equal(t, "Список групп пока пуст.", GroupList(nil, nil, ""))

	text := GroupList([]string{"Ит1-22", "Са1-21"}, map[string]int{"Са1-21": 3}, "Ит1-22")
	assert.Contains(t, text, "✅ Ит1-22")
	assert.Contains(t, text, "• Са1-21 <i>(3)</i>")
}

func TestNotYet(t *testing.T) {
	assert.Contains(t, NotYet(timetable.Today), "на сегодня")
}

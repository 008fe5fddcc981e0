package parser

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
)

const samplePage = `<html><head><meta charset="utf-8"></head><body>
<table><tr><td>Колледж</td></tr></table>
<table border="1">
<tr><td colspan="4"><b>1 сентября 2024</b> Понедельник (числитель)</td></tr>
<tr><td>Группа</td><td>Пара</td><td>Дисциплина, преподаватель</td><td>Ауд.</td></tr>
<tr><td>Ит1-22</td><td>1,2</td><td>Высшая математика, Иванов&nbsp;И.И.</td><td>305</td></tr>
<tr><td></td><td>3</td><td>По расписанию</td><td>&nbsp;</td></tr>
<tr><td>Са1-21</td><td>1</td><td>Нет</td><td></td></tr>
<tr><td>Са1-21 2 п/г</td><td>0</td><td>Классный час</td><td></td></tr>
<tr><td>Пк1-23</td><td>1</td><td>Физика, Петров П.П.</td><td>210</td></tr>
</table>
</body></html>`

func scheduleForSample() *defaults.Schedule {
	return defaults.New(defaults.Day{
		Day: defaults.Weekday(time.Monday),
		Groups: []defaults.Group{{
			Name: "Ит1-22",
			Lessons: []defaults.Lesson{
				{Num: 3, Name: "История", IsEven: boolPtr(false), Classroom: strPtr("112")},
				{Num: 3, Name: "Обществознание", IsEven: boolPtr(true), Classroom: strPtr("112")},
			},
		}},
	})
}

func newTestParser(groups []string) *Parser {
	parsedAt := time.Date(2024, time.August, 31, 18, 0, 0, 0, time.UTC)
	return New(scheduleForSample(), groups, zap.NewNop()).
		WithClock(func() time.Time { return parsedAt })
}

func TestParse_Scenario(t *testing.T) {
	p := newTestParser([]string{"Ит1-22", "Са1-21", "С1-21"})

	s, err := p.Parse(samplePage, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), s.Date)
	assert.False(t, s.IsWeekEven)
	assert.Equal(t, s.ComputeUID(), s.UID)

	require.Len(t, s.Groups, 3)
	assert.Equal(t, []string{"Ит1-22", "Са1-21", "С1-21"}, groupNames(s))

	it, ok := s.Group("Ит1-22")
	require.True(t, ok)
	require.Len(t, it.Lessons, 3)
	for i, num := range []int{1, 2} {
		l := it.Lessons[i]
		assert.Equal(t, num, l.Num)
		assert.Equal(t, "Высшая математика", l.Name)
		assert.Equal(t, "Иванов И.И.", l.Teacher)
		assert.Equal(t, "305", l.Classroom)
	}
	assert.Equal(t, timetable.Lesson{Num: 3, Name: "История", Classroom: "112"}, it.Lessons[2])

	sa, ok := s.Group("Са1-21")
	require.True(t, ok)
	assert.Empty(t, sa.Lessons)

	c, ok := s.Group("С1-21")
	require.True(t, ok)
	assert.Empty(t, c.Lessons)

	_, ok = s.Group("Пк1-23")
	assert.False(t, ok)
}

func TestParse_ContentIdentity(t *testing.T) {
	first, err := newTestParser(nil).Parse(samplePage, time.Time{})
	require.NoError(t, err)

	later := New(scheduleForSample(), nil, nil).
		WithClock(func() time.Time { return time.Date(2024, time.September, 1, 7, 0, 0, 0, time.UTC) })
	second, err := later.Parse(samplePage, time.Time{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ParsedAt, second.ParsedAt)
	assert.Equal(t, first.UID, second.UID)
	assert.Empty(t, timetable.Distinct(first, second, nil))
	assert.Equal(t, []string{"Ит1-22", "Са1-21", "Пк1-23"}, groupNames(first))
}

func TestParse_NoTable(t *testing.T) {
	_, err := newTestParser(nil).Parse("<html><body><p>Расписание скоро появится</p></body></html>", time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTable)
	assert.True(t, IsNotYet(err))
}

func TestParse_DateFallback(t *testing.T) {
	page := `<table>
<tr><td>Изменения в расписании</td></tr>
<tr><td>Группа</td></tr>
<tr><td>Ит1-22</td><td>1</td><td>Физика</td></tr>
</table>`
	p := newTestParser([]string{"Ит1-22"})

	_, err := p.Parse(page, time.Time{})
	assert.ErrorIs(t, err, ErrNoDate)
	assert.False(t, IsNotYet(err))

	fallback := time.Date(2024, time.September, 10, 15, 4, 5, 0, time.UTC)
	s, err := p.Parse(page, fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), s.Date)
	// 10 сентября 2024 - 37-я ISO-неделя
	assert.False(t, s.IsWeekEven)
}

func TestParse_DateInSecondRow(t *testing.T) {
	page := `<table>
<tr><td>Замены</td></tr>
<tr><td>на 3 сентября 2024 (знаменатель)</td></tr>
<tr><td>Ит1-22</td><td>1</td><td>Физика</td></tr>
</table>`

	s, err := newTestParser(nil).Parse(page, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC), s.Date)
	assert.True(t, s.IsWeekEven)
}

func TestParse_MalformedRowDoesNotAbort(t *testing.T) {
	page := `<table>
<tr><td>2 сентября 2024</td></tr>
<tr><td></td></tr>
<tr><td>Ит1-22</td><td>1,2(2ч),(1ч)</td><td>Физика</td></tr>
<tr><td>???</td></tr>
<tr><td>Ит1-22 x п/г</td><td>3</td><td>Химия</td></tr>
</table>`

	s, err := newTestParser([]string{"Ит1-22"}).Parse(page, time.Time{})
	require.NoError(t, err)

	g, ok := s.Group("Ит1-22")
	require.True(t, ok)
	var nums []int
	for _, l := range g.Lessons {
		nums = append(nums, l.Num)
	}
	assert.Equal(t, []int{1, 1, 2, 2, 2, 2, 3}, nums)
}

func TestSnapshot_JSONOmitsAbsentFields(t *testing.T) {
	s, err := newTestParser([]string{"Ит1-22"}).Parse(samplePage, time.Time{})
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded struct {
		Groups []struct {
			Lessons []map[string]any `json:"lessons"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	history := decoded.Groups[0].Lessons[2]
	assert.Equal(t, "История", history["name"])
	assert.NotContains(t, history, "teacher")
	assert.NotContains(t, history, "subgroup")
}

func groupNames(s *timetable.Snapshot) []string {
	names := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		names = append(names, g.Name)
	}
	return names
}

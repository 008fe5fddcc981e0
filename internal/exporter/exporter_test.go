package exporter

import (
	"bytes"
	"testing"
	"time"

	"maiq/internal/domain/timetable"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBells(t *testing.T) {
	bells, err := ParseBells(DefaultBells)
	require.NoError(t, err)
	require.Len(t, bells, 6)
	assert.Equal(t, 8*time.Hour+30*time.Minute, bells[0].Start)
	assert.Equal(t, 10*time.Hour, bells[0].End)

	bells, err = ParseBells(" 09:00-10:30 ; ")
	require.NoError(t, err)
	assert.Len(t, bells, 1)

	for _, raw := range []string{"", "09:00", "10:00-09:00", "09:00-10:30;10:00-11:00", "9am-10am"} {
		_, err := ParseBells(raw)
		assert.Error(t, err, raw)
	}
}

func TestBells_At(t *testing.T) {
	bells, err := ParseBells(DefaultBells)
	require.NoError(t, err)

	loc := time.FixedZone("MSK", 3*60*60)
	date := time.Date(2024, 9, 2, 17, 0, 0, 0, loc)

	start, end, ok := bells.At(2, date)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 9, 2, 10, 10, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 9, 2, 11, 40, 0, 0, loc), end)

	_, _, ok = bells.At(0, date)
	assert.False(t, ok)
	_, _, ok = bells.At(7, date)
	assert.False(t, ok)
}

func TestWriteICS(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	group := timetable.Group{Name: "Ит1-22", Lessons: []timetable.Lesson{
		{Num: 1, Name: "Математика", Teacher: "Иванов И.И.", Classroom: "101"},
		{Num: 2, Name: "Физика", Subgroup: 1},
		{Num: 9, Name: "Факультатив"},
	}}
	group.UID = group.ComputeUID()
	snapshot := timetable.NewSnapshot(
		[]timetable.Group{group},
		time.Date(2024, 9, 2, 0, 0, 0, 0, loc),
		false,
		time.Date(2024, 9, 1, 20, 0, 0, 0, loc),
	)

	bells, err := ParseBells(DefaultBells)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, snapshot, "Ит1-22", bells, loc))

	cal, err := ics.ParseCalendar(&buf)
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Математика", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "101", events[0].GetProperty(ics.ComponentPropertyLocation).Value)
	assert.Equal(t, "Физика (п/г 1)", events[1].GetProperty(ics.ComponentPropertySummary).Value)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 9, 2, 8, 30, 0, 0, loc)))
}

func TestWriteICS_UnknownGroup(t *testing.T) {
	snapshot := timetable.NewSnapshot(nil, time.Now(), false, time.Now())
	err := WriteICS(&bytes.Buffer{}, snapshot, "Ит1-22", Bells{{Start: time.Hour, End: 2 * time.Hour}}, time.UTC)
	assert.Error(t, err)
}

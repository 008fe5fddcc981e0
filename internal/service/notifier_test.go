package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maiq/internal/domain/timetable"
)

func TestNotifier_HandleUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSubscriptionRepo()
	subs := NewSubscriptionService(repo, staticGroups{"Ит1-22", "Са1-21"}, zap.NewNop())
	for chatID, group := range map[int64]string{10: "Ит1-22", 11: "Ит1-22", 12: "Са1-21"} {
		_, err := subs.Subscribe(ctx, chatID, group)
		require.NoError(t, err)
	}

	sender := &fakeSender{}
	n := NewNotifier(subs, sender, inlineJobs{}, zap.NewNop())

	date := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	snapshot := timetable.NewSnapshot([]timetable.Group{timetable.NewGroup("Ит1-22")}, date, false, date)

	n.HandleUpdate(ctx, Update{Mode: timetable.Today, Snapshot: snapshot, Changed: []string{"Ит1-22"}})
	assert.Empty(t, sender.messages(), "first snapshot after start is not announced")

	n.HandleUpdate(ctx, Update{Mode: timetable.Today, Snapshot: snapshot, Previous: snapshot})
	assert.Empty(t, sender.messages())

	n.HandleUpdate(ctx, Update{Mode: timetable.Next, Snapshot: snapshot, Previous: snapshot, Changed: []string{"Ит1-22"}})
	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(10), msgs[0].ChatID)
	assert.Equal(t, int64(11), msgs[1].ChatID)
	assert.Contains(t, msgs[0].Text, "Изменения в расписании на следующий день")
}

func TestNotifier_WiredToTimetable(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, _ := newTestTimetable(t, []string{"Ит1-22", "Са1-21"})

	subs := NewSubscriptionService(newFakeSubscriptionRepo(), svc, zap.NewNop())
	_, err := subs.Subscribe(ctx, 42, "Са1-21")
	require.NoError(t, err)

	sender := &fakeSender{}
	svc.OnUpdate(NewNotifier(subs, sender, inlineJobs{}, zap.NewNop()).HandleUpdate)

	fetcher.set(todayURL, page("Математика"))
	_, err = svc.Refresh(ctx, timetable.Today)
	require.NoError(t, err)

	fetcher.set(todayURL, page("Химия"))
	_, err = svc.Refresh(ctx, timetable.Today)
	require.NoError(t, err)
	assert.Empty(t, sender.messages(), "only Ит1-22 changed")

	fetcher.set(todayURL, `<html><body><table border="1">
<tr><td colspan="4"><b>2 сентября 2024</b> Понедельник (числитель)</td></tr>
<tr><td>Группа</td><td>Пара</td><td>Дисциплина, преподаватель</td><td>Ауд.</td></tr>
<tr><td>Ит1-22</td><td>1</td><td>Химия, Иванов И.И.</td><td>305</td></tr>
<tr><td>Са1-21</td><td>3</td><td>Физика, Петров П.П.</td><td>210</td></tr>
</table></body></html>`)
	_, err = svc.Refresh(ctx, timetable.Today)
	require.NoError(t, err)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(42), msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "<b>3.</b> Физика")
}

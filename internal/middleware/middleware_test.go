package middleware

import (
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maiq/internal/config"
)

type fakeReplier struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func (r *fakeReplier) SendHTML(chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = make(map[int64][]string)
	}
	r.sent[chatID] = append(r.sent[chatID], text)
	return nil
}

type adminName string

func (a adminName) IsAdmin(username string) bool { return string(a) == username }

func command(chatID int64, user, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: chatID},
			From:     &tgbotapi.User{ID: chatID, UserName: user},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
		},
	}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		Data:    data,
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Func {
		return func(u tgbotapi.Update, next HandlerFunc) error {
			order = append(order, name)
			return next(u)
		}
	}

	err := Chain(mark("a"), mark("b"))(tgbotapi.Update{}, func(tgbotapi.Update) error {
		order = append(order, "handler")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestRecovery(t *testing.T) {
	replier := &fakeReplier{}
	err := Recovery(replier, zap.NewNop())(command(5, "u", "/today"), func(tgbotapi.Update) error {
		panic("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{panicReply}, replier.sent[5])
}

func TestDebounce(t *testing.T) {
	d := NewDebouncer(time.Second, zap.NewNop())
	clock := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }

	calls := 0
	handler := func(tgbotapi.Update) error { calls++; return nil }
	mw := Debounce(d, zap.NewNop())

	require.NoError(t, mw(command(1, "u", "/today"), handler))
	require.NoError(t, mw(command(1, "u", "/today"), handler))
	require.NoError(t, mw(command(2, "u", "/today"), handler))
	assert.Equal(t, 2, calls)

	require.NoError(t, mw(callback(1, "sub_Ит1-22"), handler))
	require.NoError(t, mw(callback(1, "sub_Ит1-22"), handler))
	assert.Equal(t, 3, calls)

	clock = clock.Add(5 * time.Second)
	require.NoError(t, mw(command(1, "u", "/today"), handler))
	require.NoError(t, mw(command(1, "u", "/refresh"), handler))
	require.NoError(t, mw(command(1, "u", "/refresh"), handler))
	assert.Equal(t, 5, calls)

	clock = clock.Add(time.Minute)
	d.Cleanup()
	assert.Empty(t, d.requests)
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, zap.NewNop())
	clock := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	replier := &fakeReplier{}
	mw := RateLimit(rl, replier, zap.NewNop())

	calls := 0
	handler := func(tgbotapi.Update) error { calls++; return nil }
	for range 3 {
		require.NoError(t, mw(command(1, "u", "/today"), handler))
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{rateLimitReply}, replier.sent[1])

	clock = clock.Add(2 * time.Minute)
	require.NoError(t, mw(command(1, "u", "/today"), handler))
	assert.Equal(t, 3, calls)

	clock = clock.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.requests)
}

func TestAdminOnly(t *testing.T) {
	replier := &fakeReplier{}
	mw := AdminOnly(adminName("boss"), replier, zap.NewNop())
	handlerErr := errors.New("handled")
	handler := func(tgbotapi.Update) error { return handlerErr }

	assert.ErrorIs(t, mw(command(1, "boss", "/refresh"), handler), handlerErr)
	assert.NoError(t, mw(command(2, "guest", "/refresh"), handler))
	assert.NoError(t, mw(command(3, "", "/refresh"), handler))
	assert.Equal(t, []string{accessDeniedReply}, replier.sent[2])
}

func TestMiddleware_Process(t *testing.T) {
	cfg := &config.Config{RateLimitEnabled: true, RateLimitRequests: 1, RateLimitWindow: time.Minute}
	replier := &fakeReplier{}
	m := New(cfg, adminName("boss"), replier, zap.NewNop())

	calls := 0
	handler := func(tgbotapi.Update) error { calls++; return nil }

	require.NoError(t, m.Process(command(1, "u", "/today"), handler))
	require.NoError(t, m.Process(command(1, "u", "/next"), handler))
	assert.Equal(t, 1, calls, "second command is over the limit")

	require.NoError(t, m.Process(command(2, "boss", "/refresh"), m.AdminOnly(handler)))
	assert.Equal(t, 2, calls)

	m.Cleanup()
}

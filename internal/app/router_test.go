package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"maiq/internal/config"
	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/handlers"
	"maiq/internal/middleware"
	"maiq/internal/service"
	"maiq/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingBot struct {
	mu      sync.Mutex
	texts   []string
	answers []string
}

func (b *recordingBot) SendHTML(_ int64, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.texts = append(b.texts, text)
	return nil
}

func (b *recordingBot) SendHTMLWithKeyboard(chatID int64, text string, _ tgbotapi.InlineKeyboardMarkup) error {
	return b.SendHTML(chatID, text)
}

func (b *recordingBot) EditHTML(chatID int64, _ int, text string, _ *tgbotapi.InlineKeyboardMarkup) error {
	return b.SendHTML(chatID, text)
}

func (b *recordingBot) AnswerCallback(_ string, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answers = append(b.answers, text)
	return nil
}

func (b *recordingBot) SendDocument(chatID int64, _ string, _ []byte, caption string) error {
	return b.SendHTML(chatID, caption)
}

func (b *recordingBot) SetBotCommands([]tgbotapi.BotCommand) error { return nil }

func (b *recordingBot) last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.texts) == 0 {
		return ""
	}
	return b.texts[len(b.texts)-1]
}

type stubTimetable struct{ refreshed int }

func (s *stubTimetable) Snapshot(context.Context, timetable.FetchMode) (*timetable.Snapshot, error) {
	return nil, nil
}
func (s *stubTimetable) RefreshAll(context.Context) []service.Update {
	s.refreshed++
	return nil
}
func (s *stubTimetable) KnownGroups() []string        { return nil }
func (s *stubTimetable) Schedule() *defaults.Schedule { return defaults.New() }
func (s *stubTimetable) Location() *time.Location     { return time.UTC }

// inlineJobs выполняет задачу сразу или отвечает заданной ошибкой
type inlineJobs struct {
	err       error
	submitted int
}

func (j *inlineJobs) Submit(job worker.Job) error {
	j.submitted++
	if j.err != nil {
		return j.err
	}
	return job.Handler(context.Background())
}

type routerFixture struct {
	router *Router
	bot    *recordingBot
	tt     *stubTimetable
	jobs   *inlineJobs
}

func newRouterFixture() *routerFixture {
	bot := &recordingBot{}
	tt := &stubTimetable{}
	jobs := &inlineJobs{}
	settings := service.NewSettings("boss")

	h := handlers.New(handlers.Deps{Timetable: tt, Admin: settings.Admin}, bot, zap.NewNop())
	mw := middleware.New(&config.Config{}, settings, bot, zap.NewNop())
	return &routerFixture{
		router: NewRouter(h, mw, jobs, zap.NewNop()),
		bot:    bot,
		tt:     tt,
		jobs:   jobs,
	}
}

func command(chatID int64, user, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID, UserName: user},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestRouter_Commands(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleUpdate(command(1, "student", "/help"))
	assert.Contains(t, f.bot.last(), "<b>Команды</b>")
	assert.Contains(t, f.bot.last(), "@boss")

	f.router.HandleUpdate(command(2, "student", "/HELP"))
	assert.Contains(t, f.bot.last(), "<b>Команды</b>")

	f.router.HandleUpdate(command(3, "student", "/weather"))
	assert.Contains(t, f.bot.last(), "Неизвестная команда")
	assert.Equal(t, 3, f.jobs.submitted)
}

func TestRouter_AdminCommands(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleUpdate(command(1, "student", "/refresh"))
	assert.Equal(t, "🔒 Эта команда доступна только администратору", f.bot.last())
	assert.Equal(t, 0, f.tt.refreshed)

	f.router.HandleUpdate(command(2, "Boss", "/refresh"))
	assert.Equal(t, 1, f.tt.refreshed)
	assert.Contains(t, f.bot.last(), "Обновление расписания")
}

func TestRouter_Callback(t *testing.T) {
	f := newRouterFixture()

	f.router.HandleUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q",
		Data:    "month_may",
		From:    &tgbotapi.User{ID: 5},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: 5}},
	}})
	require.Len(t, f.bot.answers, 1)
	assert.Equal(t, "Кнопка устарела", f.bot.answers[0])
}

func TestRouter_QueueFullRunsInline(t *testing.T) {
	f := newRouterFixture()
	f.jobs.err = worker.ErrQueueFull

	f.router.HandleUpdate(command(1, "student", "/help"))
	assert.Contains(t, f.bot.last(), "<b>Команды</b>")

	f.jobs.err = worker.ErrStopped
	f.router.HandleUpdate(command(2, "student", "/weather"))
	assert.Contains(t, f.bot.last(), "<b>Команды</b>")
}

func TestRouter_RegisterBotCommands(t *testing.T) {
	f := newRouterFixture()

	names := make([]string, 0)
	for _, c := range f.router.RegisterBotCommands() {
		names = append(names, c.Command)
	}
	assert.Contains(t, names, "today")
	assert.Contains(t, names, "subscribe")
	assert.NotContains(t, names, "refresh")
	assert.NotContains(t, names, "config")
}

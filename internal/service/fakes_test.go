package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"maiq/internal/model"
	"maiq/internal/worker"
)

const pageTemplate = `<html><head><meta charset="utf-8"></head><body>
<table border="1">
<tr><td colspan="4"><b>2 сентября 2024</b> Понедельник (числитель)</td></tr>
<tr><td>Группа</td><td>Пара</td><td>Дисциплина, преподаватель</td><td>Ауд.</td></tr>
<tr><td>Ит1-22</td><td>1</td><td>%s, Иванов И.И.</td><td>305</td></tr>
<tr><td>Са1-21</td><td>2</td><td>Физика, Петров П.П.</td><td>210</td></tr>
</table>
</body></html>`

const emptyPage = `<html><body><p>Расписание готовится</p></body></html>`

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]string),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) set(url, page string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = page
	delete(f.errs, url)
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if err := f.errs[url]; err != nil {
		return "", err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("not found")
	}
	return page, nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[int64]string
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[int64]string)}
}

func (r *fakeSubscriptionRepo) Get(_ context.Context, chatID int64) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.subs[chatID]
	if !ok {
		return nil, nil
	}
	return &model.Subscription{ChatID: chatID, GroupName: g}, nil
}

func (r *fakeSubscriptionRepo) Upsert(_ context.Context, sub *model.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ChatID] = sub.GroupName
	return nil
}

func (r *fakeSubscriptionRepo) Delete(_ context.Context, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[chatID]
	delete(r.subs, chatID)
	return ok, nil
}

func (r *fakeSubscriptionRepo) ListByGroup(_ context.Context, group string) ([]model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var subs []model.Subscription
	for chatID, g := range r.subs {
		if g == group {
			subs = append(subs, model.Subscription{ChatID: chatID, GroupName: g})
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ChatID < subs[j].ChatID })
	return subs, nil
}

func (r *fakeSubscriptionRepo) CountByGroup(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, g := range r.subs {
		counts[g]++
	}
	return counts, nil
}

type fakeConfigRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{values: make(map[string]string)}
}

func (r *fakeConfigRepo) Get(_ context.Context, key string) (*model.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return nil, nil
	}
	return &model.Config{Key: key, Value: v}, nil
}

func (r *fakeConfigRepo) GetAll(_ context.Context) ([]model.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	configs := make([]model.Config, 0, len(keys))
	for _, k := range keys {
		configs = append(configs, model.Config{Key: k, Value: r.values[k]})
	}
	return configs, nil
}

func (r *fakeConfigRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeConfigRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) SendHTML(chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

// inlineJobs выполняет задачу сразу в вызывающей горутине
type inlineJobs struct{}

func (inlineJobs) Submit(job worker.Job) error {
	return job.Handler(context.Background())
}

type staticGroups []string

func (g staticGroups) KnownGroups() []string { return g }

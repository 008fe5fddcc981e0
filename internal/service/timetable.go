// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"maiq/internal/cache"
	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/external/scraper"
	"maiq/internal/parser"

	"go.uber.org/zap"
)

// Update - результат обновления снимка одного режима
type Update struct {
	Mode     timetable.FetchMode
	Snapshot *timetable.Snapshot
	Previous *timetable.Snapshot
	// Changed - отслеживаемые группы, расписание которых изменилось
	Changed []string
	Err     error
}

// Initial сообщает, что до обновления снимка не было (первый запуск)
func (u Update) Initial() bool {
	return u.Previous == nil
}

// UpdateListener получает каждое успешное обновление снимка
type UpdateListener func(ctx context.Context, u Update)

// TimetableConfig - настройки сервиса расписания
type TimetableConfig struct {
	TodayURL string
	NextURL  string
	TTL      time.Duration
	Location *time.Location
	Groups   []string
}

// TimetableService загружает страницы, разбирает их и хранит последние снимки
type TimetableService struct {
	fetcher  scraper.Fetcher
	store    *cache.SnapshotStore
	schedule *defaults.Schedule
	urls     map[timetable.FetchMode]string
	ttl      time.Duration
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	parser    *parser.Parser
	listeners []UpdateListener

	// refreshMu не дает одновременно загружать один и тот же режим
	refreshMu map[timetable.FetchMode]*sync.Mutex
}

// NewTimetableService создает сервис расписания
func NewTimetableService(cfg TimetableConfig, fetcher scraper.Fetcher, store *cache.SnapshotStore, schedule *defaults.Schedule, logger *zap.Logger) *TimetableService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &TimetableService{
		fetcher:  fetcher,
		store:    store,
		schedule: schedule,
		urls: map[timetable.FetchMode]string{
			timetable.Today: cfg.TodayURL,
			timetable.Next:  cfg.NextURL,
		},
		ttl:       cfg.TTL,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
		refreshMu: make(map[timetable.FetchMode]*sync.Mutex),
	}
	for _, mode := range timetable.FetchModes {
		s.refreshMu[mode] = &sync.Mutex{}
	}
	s.parser = parser.New(schedule, cfg.Groups, logger)
	return s
}

// WithClock подменяет источник времени
func (s *TimetableService) WithClock(now func() time.Time) *TimetableService {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
	s.parser = s.parser.WithClock(now)
	return s
}

// OnUpdate регистрирует получателя обновлений
func (s *TimetableService) OnUpdate(listener UpdateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// SetGroups меняет список отслеживаемых групп. Пустой список включает режим,
// в котором группы берутся из самой таблицы.
func (s *TimetableService) SetGroups(groups []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parser = parser.New(s.schedule, groups, s.logger).WithClock(s.now)
	s.logger.Info("Tracked groups updated", zap.Strings("groups", groups))
}

// Groups возвращает отслеживаемые группы
func (s *TimetableService) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parser.Groups()
}

// KnownGroups возвращает отслеживаемые группы, а если список не задан,
// группы из последних снимков
func (s *TimetableService) KnownGroups() []string {
	if groups := s.Groups(); len(groups) > 0 {
		return groups
	}

	seen := make(map[string]bool)
	var names []string
	for _, mode := range timetable.FetchModes {
		e, ok := s.store.Get(mode)
		if !ok {
			continue
		}
		for _, g := range e.Snapshot.Groups {
			if !seen[g.Name] {
				seen[g.Name] = true
				names = append(names, g.Name)
			}
		}
	}
	return names
}

// Schedule возвращает обычное расписание
func (s *TimetableService) Schedule() *defaults.Schedule {
	return s.schedule
}

// Location возвращает часовой пояс расписания
func (s *TimetableService) Location() *time.Location {
	return s.loc
}

// Store возвращает хранилище снимков
func (s *TimetableService) Store() *cache.SnapshotStore {
	return s.store
}

// Cached возвращает последний снимок режима без загрузки
func (s *TimetableService) Cached(mode timetable.FetchMode) (*timetable.Snapshot, bool) {
	e, ok := s.store.Get(mode)
	if !ok {
		return nil, false
	}
	return e.Snapshot, true
}

// Refresh загружает и разбирает страницу режима, сохраняет новый снимок.
// При ошибке загрузки или разбора сохраненный снимок не меняется.
func (s *TimetableService) Refresh(ctx context.Context, mode timetable.FetchMode) (*Update, error) {
	lock := s.refreshMu[mode]
	lock.Lock()
	defer lock.Unlock()

	return s.refresh(ctx, mode)
}

// RefreshAll обновляет все режимы параллельно
func (s *TimetableService) RefreshAll(ctx context.Context) []Update {
	updates := make([]Update, len(timetable.FetchModes))

	var wg sync.WaitGroup
	for i, mode := range timetable.FetchModes {
		wg.Add(1)
		go func(i int, mode timetable.FetchMode) {
			defer wg.Done()

			u, err := s.Refresh(ctx, mode)
			if err != nil {
				updates[i] = Update{Mode: mode, Err: err}
				return
			}
			updates[i] = *u
		}(i, mode)
	}
	wg.Wait()

	return updates
}

// Snapshot возвращает снимок режима: из кэша, если он моложе TTL, иначе загружает заново.
// Если загрузка не удалась, отдается устаревший снимок. Ошибка "еще не опубликовано"
// возвращается как есть.
func (s *TimetableService) Snapshot(ctx context.Context, mode timetable.FetchMode) (*timetable.Snapshot, error) {
	if e, ok := s.fresh(mode); ok {
		return e.Snapshot, nil
	}

	lock := s.refreshMu[mode]
	lock.Lock()
	defer lock.Unlock()

	// пока ждали блокировку, снимок мог обновить другой запрос
	if e, ok := s.fresh(mode); ok {
		return e.Snapshot, nil
	}

	u, err := s.refresh(ctx, mode)
	if err == nil {
		return u.Snapshot, nil
	}
	if parser.IsNotYet(err) {
		return nil, err
	}

	if e, ok := s.store.Get(mode); ok {
		s.logger.Warn("Serving stale snapshot",
			zap.Stringer("mode", mode),
			zap.Time("fetched_at", e.FetchedAt),
			zap.Error(err))
		return e.Snapshot, nil
	}
	return nil, err
}

func (s *TimetableService) fresh(mode timetable.FetchMode) (cache.Entry, bool) {
	e, ok := s.store.Get(mode)
	if !ok || s.clock()().Sub(e.FetchedAt) >= s.ttl {
		return cache.Entry{}, false
	}
	return e, true
}

func (s *TimetableService) clock() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now
}

func (s *TimetableService) refresh(ctx context.Context, mode timetable.FetchMode) (*Update, error) {
	s.mu.RLock()
	p := s.parser
	now := s.now
	listeners := append([]UpdateListener(nil), s.listeners...)
	s.mu.RUnlock()

	url := s.urls[mode]
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Error("Failed to fetch timetable page",
			zap.Stringer("mode", mode),
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}

	fallback := mode.DefaultDate(now().In(s.loc))
	snapshot, err := p.Parse(body, fallback)
	if err != nil {
		if parser.IsNotYet(err) {
			s.logger.Info("Timetable is not published yet", zap.Stringer("mode", mode))
		} else {
			s.logger.Error("Failed to parse timetable page",
				zap.Stringer("mode", mode),
				zap.Error(err))
		}
		return nil, fmt.Errorf("parse %s timetable: %w", mode, err)
	}

	previous := s.store.Swap(mode, snapshot, now())
	u := &Update{
		Mode:     mode,
		Snapshot: snapshot,
		Previous: previous,
		Changed:  changedGroups(previous, snapshot, p.Groups()),
	}

	s.logger.Info("Timetable refreshed",
		zap.Stringer("mode", mode),
		zap.String("uid", snapshot.UID),
		zap.Time("date", snapshot.Date),
		zap.Int("groups", len(snapshot.Groups)),
		zap.Strings("changed", u.Changed))

	for _, l := range listeners {
		l(ctx, *u)
	}
	return u, nil
}

// changedGroups сравнивает снимки одной даты. Снимок на новую дату
// считается новым расписанием: изменились все группы, которые в нем есть.
// Сборщик создает каждую отслеживаемую группу, даже без пар, поэтому
// с наступлением новой даты уведомление получают подписчики всех таких групп.
func changedGroups(previous, next *timetable.Snapshot, tracked []string) []string {
	if previous != nil && previous.Date.Equal(next.Date) {
		return timetable.Distinct(previous, next, tracked)
	}

	changed := make([]string, 0)
	for _, name := range timetable.Distinct(nil, next, tracked) {
		if _, ok := next.Group(name); ok {
			changed = append(changed, name)
		}
	}
	return changed
}

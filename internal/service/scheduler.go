package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPollTimeout ограничивает одно плановое обновление
const DefaultPollTimeout = 2 * time.Minute

// Refresher обновляет все снимки расписания
type Refresher interface {
	RefreshAll(ctx context.Context) []Update
}

// Scheduler периодически обновляет расписание по cron-выражению
type Scheduler struct {
	refresher Refresher
	spec      string
	cron      *cron.Cron
	timeout   time.Duration
	logger    *zap.Logger
	mu        sync.RWMutex
	running   bool
	lastRun   time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewScheduler создает новый планировщик
func NewScheduler(refresher Refresher, spec string, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		refresher: refresher,
		spec:      spec,
		cron:      cron.New(cron.WithLocation(loc)),
		timeout:   DefaultPollTimeout,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start регистрирует задачу опроса, сразу выполняет первое обновление и запускает cron
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if _, err := s.cron.AddFunc(s.spec, s.poll); err != nil {
		return fmt.Errorf("failed to add poll job %q: %w", s.spec, err)
	}

	s.logger.Info("Starting scheduler", zap.String("cron", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.poll()
	}()

	s.cron.Start()
	s.running = true
	return nil
}

// Stop останавливает планировщик и дожидается текущего обновления
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")

	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()

	s.logger.Info("Scheduler stopped")
}

// poll выполняет одно обновление всех режимов
func (s *Scheduler) poll() {
	if s.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	updates := s.refresher.RefreshAll(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.mu.Unlock()

	for _, u := range updates {
		if u.Err != nil {
			s.logger.Warn("Scheduled refresh failed",
				zap.Stringer("mode", u.Mode),
				zap.Error(u.Err))
			continue
		}
		s.logger.Debug("Scheduled refresh done",
			zap.Stringer("mode", u.Mode),
			zap.Int("changed", len(u.Changed)))
	}
	s.logger.Info("Scheduled poll finished", zap.Duration("took", time.Since(start)))
}

// GetStatus возвращает статус планировщика
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.cron.Entries()
	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":  s.running,
		"cron":     s.spec,
		"last_run": s.lastRun,
		"jobs":     jobs,
	}
}

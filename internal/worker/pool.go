// Package worker реализует пул воркеров для асинхронной обработки задач бота.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ошибки пула
var (
	ErrQueueFull = errors.New("job queue is full")
	ErrStopped   = errors.New("worker pool is stopped")
)

// Job представляет задачу для обработки
type Job struct {
	// Kind - тип задачи для логов: "update", "notify"
	Kind    string
	ChatID  int64
	Handler func(ctx context.Context) error
}

// Stats - счетчики пула
type Stats struct {
	Processed      int64
	Failed         int64
	ProcessingTime time.Duration
	Queued         int
}

// Pool пул воркеров
type Pool struct {
	workers  int
	jobQueue chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.Logger

	mu      sync.RWMutex
	stopped bool
	started bool
	stats   Stats
}

// NewPool создает новый пул воркеров
func NewPool(workers, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Start запускает воркеры. Повторный вызов ничего не делает.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	p.logger.Info("Starting worker pool", zap.Int("workers", p.workers))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop дожидается обработки очереди и останавливает воркеры
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	p.logger.Info("Worker pool stopped")
}

// Submit добавляет задачу в очередь, не блокируясь
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stats возвращает текущие счетчики
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.stats
	s.Queued = len(p.jobQueue)
	return s
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		p.process(job, id)
	}
	p.logger.Debug("Worker stopping", zap.Int("worker_id", id))
}

func (p *Pool) process(job Job, workerID int) {
	start := time.Now()

	err := p.run(job)
	elapsed := time.Since(start)

	p.mu.Lock()
	if err != nil {
		p.stats.Failed++
	} else {
		p.stats.Processed++
	}
	p.stats.ProcessingTime += elapsed
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("Job processing failed",
			zap.Int("worker_id", workerID),
			zap.String("kind", job.Kind),
			zap.Int64("chat_id", job.ChatID),
			zap.Error(err))
		return
	}

	p.logger.Debug("Job processed",
		zap.Int("worker_id", workerID),
		zap.String("kind", job.Kind),
		zap.Duration("duration", elapsed))
}

// run выполняет задачу, паника превращается в ошибку
func (p *Pool) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return job.Handler(p.ctx)
}

// PanicError - паника внутри задачи
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "job panicked"
}

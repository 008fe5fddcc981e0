package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_ProcessesJobs(t *testing.T) {
	pool := NewPool(2, 10, zap.NewNop())
	pool.Start()

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := int64(0); i < 5; i++ {
		chatID := i
		require.NoError(t, pool.Submit(Job{
			Kind:   "test",
			ChatID: chatID,
			Handler: func(context.Context) error {
				mu.Lock()
				seen[chatID] = true
				mu.Unlock()
				return nil
			},
		}))
	}
	require.NoError(t, pool.Submit(Job{Kind: "test", Handler: func(context.Context) error {
		return errors.New("boom")
	}}))
	require.NoError(t, pool.Submit(Job{Kind: "test", Handler: func(context.Context) error {
		panic("oops")
	}}))

	// Stop дожидается опустошения очереди
	pool.Stop()

	assert.Len(t, seen, 5)
	stats := pool.Stats()
	assert.Equal(t, int64(5), stats.Processed)
	assert.Equal(t, int64(2), stats.Failed)
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool(1, 1, zap.NewNop())
	pool.Start()
	pool.Stop()
	pool.Stop()

	err := pool.Submit(Job{Handler: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestPool_QueueFull(t *testing.T) {
	// Воркеры не запущены, очередь на один элемент
	pool := NewPool(1, 1, zap.NewNop())
	noop := Job{Handler: func(context.Context) error { return nil }}

	require.NoError(t, pool.Submit(noop))
	assert.ErrorIs(t, pool.Submit(noop), ErrQueueFull)
}

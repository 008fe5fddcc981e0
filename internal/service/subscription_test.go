package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubscriptionService(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSubscriptionRepo()
	svc := NewSubscriptionService(repo, staticGroups{"Ит1-22", "Са1-21"}, zap.NewNop())

	group, err := svc.Subscribe(ctx, 1, " ит1-22 ")
	require.NoError(t, err)
	assert.Equal(t, "Ит1-22", group)

	_, err = svc.Subscribe(ctx, 2, "Пк1-23")
	assert.ErrorIs(t, err, ErrUnknownGroup)

	_, err = svc.Subscribe(ctx, 2, "Са1-21")
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, 3, "Са1-21")
	require.NoError(t, err)

	current, err := svc.GroupOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ит1-22", current)

	chats, err := svc.Subscribers(ctx, "Са1-21")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, chats)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Ит1-22": 1, "Са1-21": 2}, counts)

	removed, err := svc.Unsubscribe(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Unsubscribe(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	current, err = svc.GroupOf(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, current)
}

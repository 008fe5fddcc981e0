package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maiq/internal/config"
)

func TestConfigService_Set(t *testing.T) {
	ctx := context.Background()
	repo := newFakeConfigRepo()
	svc := NewConfigService(repo, zap.NewNop())

	require.NoError(t, svc.Set(ctx, "groups", " Ит1-22 ; Са1-21;Ит1-22 "))
	v, err := svc.Get(config.KeyGroups)
	require.NoError(t, err)
	assert.Equal(t, "Ит1-22;Са1-21", v)

	require.NoError(t, svc.Set(ctx, config.KeyAdminUsername, "@admin"))
	v, err = svc.Get(config.KeyAdminUsername)
	require.NoError(t, err)
	assert.Equal(t, "admin", v)

	assert.Error(t, svc.Set(ctx, "BOT_TOKEN", "x"))
	assert.Error(t, svc.Set(ctx, config.KeyGroups, "not a group"))

	_, err = svc.Get("MISSING")
	assert.Error(t, err)

	text, err := svc.Describe(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "<b>GROUPS</b>: Ит1-22;Са1-21")
}

func TestConfigWatcher_Check(t *testing.T) {
	ctx := context.Background()
	repo := newFakeConfigRepo()
	configs := NewConfigService(repo, zap.NewNop())
	svc, _, _ := newTestTimetable(t, []string{"Ит1-22"})
	settings := NewSettings("")

	w := NewConfigWatcher(configs, svc, settings, &config.Config{}, zap.NewNop())

	require.NoError(t, configs.Set(ctx, config.KeyGroups, "Са1-21;Пк1-23"))
	require.NoError(t, configs.Set(ctx, config.KeyAdminUsername, "teacher"))
	w.Check(ctx)

	assert.Equal(t, []string{"Са1-21", "Пк1-23"}, svc.Groups())
	assert.True(t, settings.IsAdmin("@Teacher"))
	assert.False(t, settings.IsAdmin(""))
}

func TestConfigWatcher_PinnedByEnv(t *testing.T) {
	ctx := context.Background()
	configs := NewConfigService(newFakeConfigRepo(), zap.NewNop())
	svc, _, _ := newTestTimetable(t, []string{"Ит1-22"})
	settings := NewSettings("root")

	w := NewConfigWatcher(configs, svc, settings, &config.Config{
		AdminUsername: "root",
		Groups:        []string{"Ит1-22"},
	}, zap.NewNop())
	assert.True(t, w.Pinned(config.KeyGroups))

	require.NoError(t, configs.Set(ctx, config.KeyGroups, "Са1-21"))
	require.NoError(t, configs.Set(ctx, config.KeyAdminUsername, "other"))
	w.Check(ctx)

	assert.Equal(t, []string{"Ит1-22"}, svc.Groups())
	assert.Equal(t, "root", settings.Admin())
}

type countingRefresher struct {
	calls chan struct{}
}

func (r *countingRefresher) RefreshAll(context.Context) []Update {
	r.calls <- struct{}{}
	return nil
}

func TestScheduler_RunsInitialPoll(t *testing.T) {
	r := &countingRefresher{calls: make(chan struct{}, 4)}
	s := NewScheduler(r, "*/10 * * * *", time.UTC, zap.NewNop())

	require.NoError(t, s.Start())
	assert.Error(t, s.Start())

	select {
	case <-r.calls:
	case <-time.After(time.Second):
		t.Fatal("initial poll did not run")
	}

	status := s.GetStatus()
	assert.Equal(t, true, status["running"])
	assert.Len(t, status["jobs"], 1)

	s.Stop()
	s.Stop()
	assert.Equal(t, false, s.GetStatus()["running"])
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&countingRefresher{calls: make(chan struct{}, 1)}, "bogus", time.UTC, zap.NewNop())
	assert.Error(t, s.Start())
}

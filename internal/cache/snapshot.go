// Package cache хранит последние снимки расписания.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"maiq/internal/domain/timetable"
)

// Entry - снимок и время его получения
type Entry struct {
	Snapshot  *timetable.Snapshot `json:"snapshot"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// SnapshotStore хранит последний снимок для каждого режима загрузки.
// Если задан каталог, снимки дублируются на диск и читаются при старте,
// чтобы после перезапуска не считать все группы измененными.
type SnapshotStore struct {
	mu      sync.RWMutex
	entries map[timetable.FetchMode]Entry
	dir     string
	logger  *zap.Logger
}

// NewSnapshotStore создает хранилище. Пустой dir - только память.
func NewSnapshotStore(dir string, logger *zap.Logger) *SnapshotStore {
	s := &SnapshotStore{
		entries: make(map[timetable.FetchMode]Entry),
		dir:     dir,
		logger:  logger,
	}
	if dir != "" {
		s.load()
	}
	return s
}

// Get возвращает последний снимок режима
func (s *SnapshotStore) Get(mode timetable.FetchMode) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[mode]
	return e, ok && e.Snapshot != nil
}

// Swap сохраняет новый снимок и возвращает предыдущий (nil, если его не было)
func (s *SnapshotStore) Swap(mode timetable.FetchMode, snapshot *timetable.Snapshot, fetchedAt time.Time) *timetable.Snapshot {
	s.mu.Lock()
	prev := s.entries[mode].Snapshot
	entry := Entry{Snapshot: snapshot, FetchedAt: fetchedAt}
	s.entries[mode] = entry
	s.mu.Unlock()

	if s.dir != "" {
		if err := s.persist(mode, entry); err != nil {
			s.logger.Warn("Failed to persist snapshot",
				zap.Stringer("mode", mode),
				zap.Error(err))
		}
	}

	return prev
}

// Fresh сообщает, что снимок режима есть и он моложе ttl
func (s *SnapshotStore) Fresh(mode timetable.FetchMode, ttl time.Duration, now time.Time) bool {
	e, ok := s.Get(mode)
	if !ok {
		return false
	}
	return now.Sub(e.FetchedAt) < ttl
}

// Modes возвращает режимы, для которых есть снимок
func (s *SnapshotStore) Modes() []timetable.FetchMode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	modes := make([]timetable.FetchMode, 0, len(s.entries))
	for _, m := range timetable.FetchModes {
		if e, ok := s.entries[m]; ok && e.Snapshot != nil {
			modes = append(modes, m)
		}
	}
	return modes
}

func (s *SnapshotStore) path(mode timetable.FetchMode) string {
	return filepath.Join(s.dir, mode.String()+".json")
}

func (s *SnapshotStore) persist(mode timetable.FetchMode, entry Entry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := s.path(mode) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp, s.path(mode))
}

func (s *SnapshotStore) load() {
	for _, mode := range timetable.FetchModes {
		data, err := os.ReadFile(s.path(mode))
		if err != nil {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || entry.Snapshot == nil {
			s.logger.Warn("Ignoring broken snapshot file",
				zap.String("path", s.path(mode)),
				zap.Error(err))
			continue
		}

		s.entries[mode] = entry
		s.logger.Info("Loaded snapshot from disk",
			zap.Stringer("mode", mode),
			zap.String("uid", entry.Snapshot.UID),
			zap.Time("fetched_at", entry.FetchedAt))
	}
}

package health

import (
	"context"

	"maiq/internal/cache"
	"maiq/internal/domain/timetable"
)

// Pinger проверяет подключение к базе данных
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotSource отдает последние снимки расписания
type SnapshotSource interface {
	Modes() []timetable.FetchMode
	Get(mode timetable.FetchMode) (cache.Entry, bool)
}

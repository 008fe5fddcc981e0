package defaults

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed data/*.json
var embedded embed.FS

// requiredDays - дни, для которых обязателен документ обычного расписания
var requiredDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// LoadEmbedded загружает обычное расписание, вшитое в бинарник
func LoadEmbedded() (*Schedule, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded defaults: %w", err)
	}
	return LoadFS(sub)
}

// Load загружает обычное расписание из каталога, а если он не задан, встроенное
func Load(dir string) (*Schedule, error) {
	if dir == "" {
		return LoadEmbedded()
	}
	return LoadDir(dir)
}

// LoadDir загружает обычное расписание из каталога с JSON-файлами
func LoadDir(dir string) (*Schedule, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open defaults dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("defaults path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS загружает все *.json из корня fsys.
// Ошибка в любом документе, повтор дня или отсутствие дня с понедельника
// по субботу делают загрузку неуспешной: частично загруженные данные не используются.
func LoadFS(fsys fs.FS) (*Schedule, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list defaults: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	days := make([]Day, 0, len(names))
	seen := make(map[time.Weekday]string, len(names))
	for _, name := range names {
		day, err := readDay(fsys, name)
		if err != nil {
			return nil, err
		}

		wd := time.Weekday(day.Day)
		if prev, ok := seen[wd]; ok {
			return nil, fmt.Errorf("duplicate defaults for %s: %s and %s", wd, prev, name)
		}
		seen[wd] = name
		days = append(days, day)
	}

	for _, wd := range requiredDays {
		if _, ok := seen[wd]; !ok {
			return nil, fmt.Errorf("missing defaults for %s", wd)
		}
	}

	return New(days...), nil
}

func readDay(fsys fs.FS, name string) (Day, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Day{}, fmt.Errorf("failed to read defaults %s: %w", name, err)
	}

	var day Day
	if err := json.Unmarshal(data, &day); err != nil {
		return Day{}, fmt.Errorf("failed to parse defaults %s: %w", name, err)
	}

	for _, g := range day.Groups {
		if g.Name == "" {
			return Day{}, fmt.Errorf("defaults %s: group without name", name)
		}
	}

	return day, nil
}

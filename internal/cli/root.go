// Package cli содержит команды maiqctl.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"maiq/internal/app"
	"maiq/internal/config"
	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/external/scraper"
	"maiq/internal/parser"
	"maiq/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env - общее окружение команд, заполняется перед запуском любой из них
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	schedule *defaults.Schedule
	loc      *time.Location
	now      func() time.Time
}

// source описывает, откуда брать страницу: с сайта или из файла
type source struct {
	file   string
	date   string
	cp1251 bool
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "Read the page from a saved HTML file instead of the site")
	cmd.Flags().StringVarP(&s.date, "date", "d", "", "Fallback date (YYYY-MM-DD) when the header has none")
	cmd.Flags().BoolVar(&s.cp1251, "cp1251", false, "The file is Windows-1251 encoded")
}

// NewRootCommand собирает дерево команд maiqctl
func NewRootCommand() *cobra.Command {
	e := &env{now: time.Now}
	var verbose bool

	root := &cobra.Command{
		Use:   "maiqctl",
		Short: "Fetch, parse and export the college timetable",
		Long: `maiqctl downloads the timetable pages, parses them with the same parser
as the bot and prints the result as JSON, a table or an .ics calendar.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")

	root.AddCommand(
		newFetchCommand(e),
		newParseCommand(e),
		newShowCommand(e),
		newICalCommand(e),
		newDefaultsCommand(e),
	)
	return root
}

func (e *env) init(verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	schedule, err := defaults.Load(cfg.DefaultsDir)
	if err != nil {
		return fmt.Errorf("failed to load default schedule: %w", err)
	}

	e.cfg = cfg
	e.loc = loc
	e.schedule = schedule
	e.logger = logger.NewConsole(verbose)
	return nil
}

// snapshot загружает и разбирает страницу режима
func (e *env) snapshot(ctx context.Context, mode timetable.FetchMode, src source) (*timetable.Snapshot, error) {
	fallback := mode.DefaultDate(e.now().In(e.loc))
	if src.date != "" {
		d, err := time.ParseInLocation("2006-01-02", src.date, e.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q: %w", src.date, err)
		}
		fallback = d
	}

	body, err := e.page(ctx, mode, src)
	if err != nil {
		return nil, err
	}

	snapshot, err := parser.New(e.schedule, e.cfg.Groups, e.logger).WithClock(e.now).Parse(body, fallback)
	if parser.IsNotYet(err) {
		return nil, fmt.Errorf("timetable for %s is not published yet", mode)
	}
	return snapshot, err
}

func (e *env) page(ctx context.Context, mode timetable.FetchMode, src source) (string, error) {
	if src.file == "" {
		url := e.cfg.TodayURL
		if mode == timetable.Next {
			url = e.cfg.NextURL
		}
		e.logger.Debug("Fetching page", zap.String("url", url))
		return app.NewFetcher(e.cfg, e.logger).Fetch(ctx, url)
	}

	data, err := os.ReadFile(src.file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src.file, err)
	}
	if src.cp1251 {
		return scraper.Decode1251(data)
	}
	return string(data), nil
}

// parseMode разбирает необязательный аргумент today|next
func parseMode(args []string) (timetable.FetchMode, error) {
	if len(args) == 0 {
		return timetable.Today, nil
	}
	return timetable.ParseFetchMode(args[0])
}

// findGroup ищет группу в снимке без учета регистра
func findGroup(s *timetable.Snapshot, name string) (*timetable.Group, error) {
	for i := range s.Groups {
		if strings.EqualFold(s.Groups[i].Name, strings.TrimSpace(name)) {
			return &s.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("group %s is not in the timetable for %s", name, s.Date.Format("2006-01-02"))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

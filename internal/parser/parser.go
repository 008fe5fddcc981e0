// Package parser разбирает HTML-таблицу расписания в снимок timetable.Snapshot.
//
// Разбор состоит из шагов: извлечение последней таблицы и нормализация ячеек,
// поиск даты в заголовке, разбор строк на поля, перенос пропущенных значений
// между строками и сборка групп с подстановкой обычного расписания.
// Parser не хранит изменяемого состояния и безопасен для параллельного вызова.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
)

// Parser разбирает страницы расписания
type Parser struct {
	assembler *Assembler
	logger    *zap.Logger
	now       func() time.Time
}

// New создает парсер с обычным расписанием и списком отслеживаемых групп
func New(schedule *defaults.Schedule, groups []string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		assembler: NewAssembler(schedule, groups),
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени для parsed_at и опорной даты
func (p *Parser) WithClock(now func() time.Time) *Parser {
	cp := *p
	cp.now = now
	return &cp
}

// Groups возвращает отслеживаемые группы
func (p *Parser) Groups() []string {
	return p.assembler.Groups()
}

// Parse разбирает HTML страницы. fallback - дата, которая используется,
// если в заголовке ее нет; нулевое значение означает, что такой даты нет.
func (p *Parser) Parse(html string, fallback time.Time) (*timetable.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.ParseDocument(doc, fallback)
}

// ParseDocument разбирает уже загруженный документ
func (p *Parser) ParseDocument(doc *goquery.Document, fallback time.Time) (*timetable.Snapshot, error) {
	table, err := ExtractTableFromDocument(doc)
	if err != nil {
		return nil, err
	}
	return p.ParseTable(table, fallback)
}

// ParseTable собирает снимок из извлеченной таблицы
func (p *Parser) ParseTable(table *Table, fallback time.Time) (*timetable.Snapshot, error) {
	now := p.now()
	ref := fallback
	if ref.IsZero() {
		ref = now
	}

	header := ParseHeader(table.Header, ref)
	if !header.HasDate {
		header = header.merge(ParseHeader(table.Meta, ref))
	}

	date := header.Date
	if !header.HasDate {
		if fallback.IsZero() {
			return nil, ErrNoDate
		}
		date = time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, fallback.Location())
		p.logger.Debug("Date not found in table header, using fallback",
			zap.String("header", table.Header),
			zap.Time("fallback", date))
	}
	weekday, isEven := header.Resolve(date)

	rows := make([]TokenizedRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		row := Tokenize(raw)
		if !row.Empty() && !row.HasName {
			p.logger.Debug("Row without lesson name",
				zap.Int("row", i),
				zap.Strings("cells", raw))
		}
		rows = append(rows, row)
	}

	entries := Reconcile(rows)
	groups := p.assembler.Assemble(entries, weekday, isEven)

	p.logger.Debug("Parsed timetable",
		zap.Time("date", date),
		zap.Stringer("weekday", weekday),
		zap.Bool("is_even", isEven),
		zap.Int("rows", len(rows)),
		zap.Int("entries", len(entries)),
		zap.Int("groups", len(groups)))

	return timetable.NewSnapshot(groups, date, isEven, now), nil
}

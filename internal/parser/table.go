package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// dataOffset - первые строки таблицы: заголовок с датой и служебная строка
const dataOffset = 2

// RawRow - непустые нормализованные ячейки одной строки таблицы
type RawRow []string

// Table - таблица расписания, разделенная на заголовок и строки с парами
type Table struct {
	Header string
	Meta   string
	Rows   []RawRow
}

// ExtractTable разбирает HTML страницы и возвращает последнюю таблицу
func ExtractTable(html string) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return ExtractTableFromDocument(doc)
}

// ExtractTableFromDocument возвращает последнюю таблицу документа.
// Если таблиц нет, расписание считается еще не опубликованным (ErrNoTable).
func ExtractTableFromDocument(doc *goquery.Document) (*Table, error) {
	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, ErrNoTable
	}
	table := tables.Last()

	t := &Table{}
	rowIndex := 0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// строки вложенных таблиц принадлежат им, а не расписанию
		if !tr.Closest("table").IsSelection(table) {
			return
		}

		cells := rowCells(tr)
		switch {
		case rowIndex == 0:
			t.Header = strings.Join(cells, " ")
		case rowIndex < dataOffset:
			t.Meta = strings.Join(cells, " ")
		default:
			t.Rows = append(t.Rows, RawRow(cells))
		}
		rowIndex++
	})

	return t, nil
}

func rowCells(tr *goquery.Selection) []string {
	cells := make([]string, 0, 6)
	tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
		if text := normalizeSelection(td); text != "" {
			cells = append(cells, text)
		}
	})
	return cells
}

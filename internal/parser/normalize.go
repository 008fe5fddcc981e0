package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeCell превращает разметку или текст ячейки в одну строку:
// теги убираются, сущности декодируются, пробельные последовательности
// (включая переносы, табуляцию и NBSP) сжимаются до одного пробела.
func NormalizeCell(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return collapseSpaces(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseSpaces(raw)
	}
	return normalizeSelection(doc.Find("body"))
}

// normalizeSelection извлекает текст узлов с пробелами на границах элементов,
// чтобы "<p>1</p><p>2</p>" и "1<br>2" не склеивались в "12".
func normalizeSelection(sel *goquery.Selection) string {
	var sb strings.Builder
	writeText(&sb, sel.Contents())
	return collapseSpaces(sb.String())
}

func writeText(sb *strings.Builder, nodes *goquery.Selection) {
	nodes.Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "#text":
			sb.WriteString(node.Text())
		case "#comment", "script", "style":
		default:
			sb.WriteByte(' ')
			writeText(sb, node.Contents())
			sb.WriteByte(' ')
		}
	})
}

// collapseSpaces сжимает пробельные последовательности; strings.Fields
// считает пробелом и U+00A0.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

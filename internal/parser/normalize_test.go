package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Физика", "Физика"},
		{"whitespace runs", "  Высшая\n\tматематика  ", "Высшая математика"},
		{"nbsp entity", "Иванов&nbsp;И.И.", "Иванов И.И."},
		{"nbsp rune", "Иванов\u00a0И.И.", "Иванов И.И."},
		{"only nbsp", "&nbsp;", ""},
		{"blank", " \n\t ", ""},
		{"empty", "", ""},
		{"tags", "<b>305</b><br>ауд.", "305 ауд."},
		{"block elements do not glue", "<p>1</p><p>2</p>", "1 2"},
		{"entities", "a &amp; b &lt;c&gt;", "a & b <c>"},
		{"malformed markup", "<td><span>Ит1-22<span> 1 п/г", "Ит1-22 1 п/г"},
		{"comments dropped", "Физика<!-- старая версия -->", "Физика"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCell(tt.in))
		})
	}
}

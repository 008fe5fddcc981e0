package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  TokenizedRow
	}{
		{
			name:  "full row",
			cells: []string{"Ит1-22", "1,2", "Высшая математика, Иванов И.И.", "305"},
			want: TokenizedRow{
				Group: "Ит1-22", HasGroup: true,
				Slots: "1,2", HasSlots: true,
				Name: "Высшая математика", HasName: true,
				Teacher:   "Иванов И.И.",
				Classroom: "305",
			},
		},
		{
			name:  "subgroup marker",
			cells: []string{"Са1-21 2 п/г", "3", "Инженерная графика"},
			want: TokenizedRow{
				Group: "Са1-21", HasGroup: true,
				Subgroup: 2, HasSubgroup: true,
				Slots: "3", HasSlots: true,
				Name: "Инженерная графика", HasName: true,
			},
		},
		{
			name:  "subgroup marker glued",
			cells: []string{"Са1-21 1п/г", "Геодезия"},
			want: TokenizedRow{
				Group: "Са1-21", HasGroup: true,
				Subgroup: 1, HasSubgroup: true,
				Name: "Геодезия", HasName: true,
			},
		},
		{
			name:  "unparsable subgroup is absent",
			cells: []string{"Ит1-22 первая", "1", "Физика"},
			want: TokenizedRow{
				Group: "Ит1-22", HasGroup: true,
				Slots: "1", HasSlots: true,
				Name: "Физика", HasName: true,
			},
		},
		{
			name:  "name only",
			cells: []string{"Физика"},
			want:  TokenizedRow{Name: "Физика", HasName: true},
		},
		{
			name:  "slot with annotation",
			cells: []string{"1,2 (4ч)", "Практика, Петров П.П.", "—"},
			want: TokenizedRow{
				Slots: "1,2 (4ч)", HasSlots: true,
				Name: "Практика", HasName: true,
				Teacher: "Петров П.П.",
			},
		},
		{
			name:  "name split on last comma",
			cells: []string{"3", "Математика, алгебра, Иванов И.И.", "-"},
			want: TokenizedRow{
				Slots: "3", HasSlots: true,
				Name: "Математика, алгебра", HasName: true,
				Teacher: "Иванов И.И.",
			},
		},
		{
			name:  "blank teacher",
			cells: []string{"2", "Физкультура, "},
			want: TokenizedRow{
				Slots: "2", HasSlots: true,
				Name: "Физкультура", HasName: true,
			},
		},
		{
			name:  "group pattern needs leading letters",
			cells: []string{"1-22 Ит", "Физика"},
			want:  TokenizedRow{Name: "1-22 Ит", HasName: true, Classroom: "Физика"},
		},
		{
			name:  "empty row",
			cells: []string{"", "  "},
			want:  TokenizedRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.cells))
		})
	}
}

func TestTokenizedRow_Empty(t *testing.T) {
	assert.True(t, Tokenize(nil).Empty())
	assert.False(t, Tokenize([]string{"Ит1-22"}).Empty())
}

func TestIsSlotList(t *testing.T) {
	for _, s := range []string{"1", "1,2", "1, 2,3", "3 (2ч)", "1,2,"} {
		assert.True(t, IsSlotList(s), s)
	}
	for _, s := range []string{"", "(2ч)", ",", "1а", "Физика", "305а"} {
		assert.False(t, IsSlotList(s), s)
	}
}

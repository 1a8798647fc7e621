package quotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TotalIsNotRecomputed(t *testing.T) {
	q := Parse("2/12 接機 3200\n導遊 2500*6天\n小計: 38700", WithYear(2026))

	require.Len(t, q.Items, 2)
	assert.Equal(t, Item{Date: "2026-02-12", Description: "接機", UnitPrice: 3200, Quantity: 1}, q.Items[0])
	assert.Equal(t, Item{Description: "導遊", UnitPrice: 2500, Quantity: 6, Unit: "天"}, q.Items[1])

	require.NotNil(t, q.Total)
	assert.Equal(t, 38700.0, *q.Total)
	assert.NotEqual(t, q.Sum(), *q.Total)
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Item
	}{
		{
			name: "dated multiplier",
			line: "2/13 包車 3,500*2日",
			want: Item{Date: "2026-02-13", Description: "包車", UnitPrice: 3500, Quantity: 2, Unit: "日"},
		},
		{
			name: "multiplier with x and no unit",
			line: "Taxi 500 x 3",
			want: Item{Description: "Taxi", UnitPrice: 500, Quantity: 3},
		},
		{
			name: "dated amount with currency",
			line: "2/14 門票 NT$1,200",
			want: Item{Date: "2026-02-14", Description: "門票", UnitPrice: 1200, Quantity: 1},
		},
		{
			name: "undated amount with trailing 元",
			line: "保險 800元",
			want: Item{Description: "保險", UnitPrice: 800, Quantity: 1},
		},
		{
			name: "bulleted line",
			line: "・1/2 飯店 12,000",
			want: Item{Date: "2026-01-02", Description: "飯店", UnitPrice: 12000, Quantity: 1},
		},
		{
			name: "impossible date keeps the item without a date",
			line: "2/30 晚餐 900",
			want: Item{Description: "晚餐", UnitPrice: 900, Quantity: 1},
		},
		{
			name: "word starting with note",
			line: "Notebook rental 500",
			want: Item{Description: "Notebook rental", UnitPrice: 500, Quantity: 1},
		},
		{
			name: "word starting with total",
			line: "Totally private car 3,000",
			want: Item{Description: "Totally private car", UnitPrice: 3000, Quantity: 1},
		},
		{
			name: "cost label without colon",
			line: "費用 門票 800",
			want: Item{Description: "費用 門票", UnitPrice: 800, Quantity: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.line, WithYear(2026))
			require.Len(t, q.Items, 1)
			assert.Equal(t, tt.want, q.Items[0])
		})
	}
}

func TestParse_ControlLines(t *testing.T) {
	q := Parse("報價明細\n總計\n接機 1000\n合計：1,000\n備註：含稅\n隨便一句話\nTotal price 9,000\n費用：500", WithYear(2026))
	require.Len(t, q.Items, 1)
	require.NotNil(t, q.Total)
	assert.Equal(t, 1000.0, *q.Total)
	assert.Equal(t, "含稅", q.Note)
}

func TestParse_ZeroQuantityIsIgnored(t *testing.T) {
	q := Parse("導遊 2500*0天", WithYear(2026))
	assert.Empty(t, q.Items)
}

func TestParse_Empty(t *testing.T) {
	q := Parse("")
	assert.NotNil(t, q.Items)
	assert.Empty(t, q.Items)
	assert.Nil(t, q.Total)
	assert.Equal(t, 0.0, q.Sum())
}

func TestFormat_Reparses(t *testing.T) {
	in := "2/12 接機 3200\n導遊 2500*6天\n1/3 住宿 4,000*1晚\n小計: 38700\n備註: 含稅"
	q := Parse(in, WithYear(2026))

	text := Format(q)
	assert.Equal(t, "2/12 接機 3,200\n導遊 2,500*6天\n1/3 住宿 4,000*1晚\n小計: 38,700\n備註: 含稅", text)

	again := Parse(text, WithYear(2026))
	assert.Equal(t, q, again)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3,200", FormatAmount(3200))
	assert.Equal(t, "1,234,567.5", FormatAmount(1234567.5))
	assert.Equal(t, "0", FormatAmount(0))
}

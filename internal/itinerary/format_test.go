package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Scenario(t *testing.T) {
	res := Parse(chiangMaiDay, WithYear(2026))
	require.True(t, res.Success)

	want := "2/12 (四)\nDay 1｜抵達清邁\n・機場接機\n午餐：餐廳A\n・泰服體驗\n晚餐：餐廳B\n・夜市"
	assert.Equal(t, want, Format(res.Days))
}

func TestFormat_MultiDayLayout(t *testing.T) {
	res := Parse(threeDays, WithYear(2026))
	require.True(t, res.Success)

	want := "2/12 (四)\nDay 1｜抵達\n・接機\n住宿：Hotel A\n" +
		"\n" +
		"2/13 (五)\nDay 2｜古城\n・寺廟\n・咖啡\n午餐：麵\n・按摩\n住宿：Hotel A\n" +
		"\n" +
		"2/14 (六)\nDay 3｜\n・大象保護區\n住宿：Hotel B"
	assert.Equal(t, want, Format(res.Days))
}

func TestFormat_RecoversBreakfastAndTea(t *testing.T) {
	res := Parse("3/1\nDay 1｜x\n・早餐: 飯店\n・a\n下午茶：咖啡廳\n・b", WithYear(2026))
	require.Len(t, res.Days, 1)
	assert.Equal(t, "3/1 (日)\nDay 1｜x\n早餐：飯店\n・a\n・b\n下午茶：咖啡廳", Format(res.Days))
}

func TestFormat_FiltersEveningEchoes(t *testing.T) {
	d := Day{
		Date:          "2026-02-12",
		DayNumber:     1,
		Evening:       "晚餐：餐廳B\n夜市\n住宿：Hotel A",
		Dinner:        "餐廳B",
		Accommodation: "Hotel A",
	}
	assert.Equal(t, "2/12 (四)\nDay 1｜\n晚餐：餐廳B\n・夜市\n住宿：Hotel A", FormatDay(d))
}

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "", Format(nil))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		chiangMaiDay,
		threeDays,
		"3/1\nDay 1｜x\n・早餐: 飯店\n・09:00 a\n下午茶：咖啡廳\n・b\n晚餐：火鍋\n・夜景",
		"12/30（二）\n自由活動\n- 逛街\n* 夜市\nLunch: noodles\n• 按摩\nHotel: Riverside",
		"3/1\nDay 1｜x\n・- 早餐：飯店\n・a",
		"3/2\nDay 1｜y\n・a\n・b\n・- 住宿：夜市旁\n晚餐：麵",
		"3/3 (二) Day 4｜z\n・a",
	}
	for _, in := range inputs {
		first := Parse(in, WithYear(2026))
		require.True(t, first.Success, in)

		text := Format(first.Days)
		second := Parse(text, WithYear(2026))
		require.True(t, second.Success, text)
		require.Len(t, second.Days, len(first.Days))

		for i := range first.Days {
			a, b := first.Days[i], second.Days[i]
			assert.Equal(t, a.Date, b.Date)
			assert.Equal(t, a.DayNumber, b.DayNumber)
			assert.Equal(t, a.Title, b.Title)
			assert.Equal(t, a.Morning, b.Morning)
			assert.Equal(t, a.Afternoon, b.Afternoon)
			assert.Equal(t, a.Evening, b.Evening)
			assert.Equal(t, a.Lunch, b.Lunch)
			assert.Equal(t, a.Dinner, b.Dinner)
			assert.Equal(t, a.Accommodation, b.Accommodation)
			assert.Len(t, b.Activities, len(a.Activities))
		}
		assert.Equal(t, first.Hotels, second.Hotels)

		// format -> parse -> format is stable
		assert.Equal(t, text, Format(second.Days))
	}
}

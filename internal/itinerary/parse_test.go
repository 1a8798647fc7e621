package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chiangMaiDay = "2/12 (四)\nDay 1｜抵達清邁\n・機場接機\n午餐：餐廳A\n・泰服體驗\n晚餐: 餐廳B\n・夜市"

const threeDays = `客戶行程草稿
2/12 (四)
Day 1｜抵達
・接機
住宿：Hotel A

2/13 (五)
Day 2｜古城
・寺廟
・咖啡
午餐：麵
・按摩
住宿：Hotel A

2/14
・大象保護區
住宿：Hotel B
`

func TestParse_SingleDayScenario(t *testing.T) {
	res := Parse(chiangMaiDay, WithYear(2026))
	require.True(t, res.Success)
	require.Len(t, res.Days, 1)

	d := res.Days[0]
	assert.Equal(t, "2026-02-12", d.Date)
	assert.Equal(t, 1, d.DayNumber)
	assert.Equal(t, "抵達清邁", d.Title)
	assert.Equal(t, "餐廳A", d.Lunch)
	assert.Equal(t, "餐廳B", d.Dinner)
	assert.Equal(t, "機場接機", d.Morning)
	assert.Equal(t, "泰服體驗", d.Afternoon)
	assert.Contains(t, d.Evening, "夜市")
	assert.Contains(t, d.Evening, "晚餐：餐廳B")
	assert.Empty(t, d.Accommodation)
	assert.Equal(t, chiangMaiDay, d.RawText)

	// Meal lines are kept in the authoritative list next to the plain ones.
	assert.Equal(t, []Activity{
		{Content: "機場接機"},
		{Content: "午餐：餐廳A"},
		{Content: "泰服體驗"},
		{Content: "晚餐: 餐廳B"},
		{Content: "夜市"},
	}, d.Activities)
	assert.Empty(t, res.Hotels)
	assert.Empty(t, res.Warnings)
}

func TestParse_MultiDay(t *testing.T) {
	res := Parse(threeDays, WithYear(2026))
	require.True(t, res.Success)
	require.Len(t, res.Days, 3)

	assert.Equal(t, []string{"2026-02-12", "2026-02-13", "2026-02-14"},
		[]string{res.Days[0].Date, res.Days[1].Date, res.Days[2].Date})

	day2 := res.Days[1]
	assert.Equal(t, "古城", day2.Title)
	assert.Equal(t, "寺廟\n咖啡", day2.Morning)
	assert.Equal(t, "按摩", day2.Afternoon)
	assert.Equal(t, "", day2.Evening)
	assert.Equal(t, "麵", day2.Lunch)
	assert.Equal(t, "Hotel A", day2.Accommodation)

	day3 := res.Days[2]
	assert.Equal(t, 3, day3.DayNumber)
	assert.Equal(t, "", day3.Title)
	assert.Equal(t, "大象保護區", day3.Morning)
	assert.Equal(t, "2/14\n・大象保護區\n住宿：Hotel B", day3.RawText)

	require.Len(t, res.Hotels, 2)
	assert.Equal(t, HotelBooking{HotelName: "Hotel A", StartDate: "2026-02-12", EndDate: "2026-02-14", Guests: DefaultGuests, Color: "blue"}, res.Hotels[0])
	assert.Equal(t, HotelBooking{HotelName: "Hotel B", StartDate: "2026-02-14", EndDate: "2026-02-15", Guests: DefaultGuests, Color: "green"}, res.Hotels[1])
}

func TestParse_NoDates(t *testing.T) {
	res := Parse("just some notes\n・not a day", WithYear(2026))
	assert.False(t, res.Success)
	assert.NotNil(t, res.Days)
	assert.Empty(t, res.Days)
	assert.Equal(t, ErrNoDays, res.Error)

	res = Parse("", WithYear(2026))
	assert.False(t, res.Success)
}

func TestParse_ExplicitDayNumberWins(t *testing.T) {
	res := Parse("3/1\nDay 5｜中段\n・健行", WithYear(2026))
	require.Len(t, res.Days, 1)
	assert.Equal(t, 5, res.Days[0].DayNumber)
	assert.Equal(t, "中段", res.Days[0].Title)
}

func TestParse_InvalidCalendarDate(t *testing.T) {
	res := Parse("2/28\n・a\n2/29\n・b", WithYear(2026))
	require.True(t, res.Success)
	require.Len(t, res.Days, 1)
	assert.Equal(t, []Activity{{Content: "a"}, {Content: "2/29"}, {Content: "b"}}, res.Days[0].Activities)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnInvalidDate, res.Warnings[0].Code)
	assert.Equal(t, 3, res.Warnings[0].Line)

	leap := Parse("2/29\n・b", WithYear(2028))
	require.Len(t, leap.Days, 1)
	assert.Equal(t, "2028-02-29", leap.Days[0].Date)
}

func TestParse_DateOrderWarnings(t *testing.T) {
	res := Parse("2/13\n・a\n2/12\n・b\n2/12\n・c", WithYear(2026))
	require.True(t, res.Success)
	require.Len(t, res.Days, 3)
	codes := make([]WarningCode, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []WarningCode{WarnDateNotIncreasing, WarnDuplicateDate}, codes)
}

func TestParse_DateMonotonicWithoutWarnings(t *testing.T) {
	res := Parse(threeDays, WithYear(2026))
	require.Empty(t, res.Warnings)
	for i := 1; i < len(res.Days); i++ {
		assert.Less(t, res.Days[i-1].Date, res.Days[i].Date)
	}
}

func TestParse_ClockTimes(t *testing.T) {
	res := Parse("4/2\n・09:00 機場接機\n・14:30 市場", WithYear(2026))
	require.Len(t, res.Days, 1)
	d := res.Days[0]
	assert.Equal(t, []Activity{{Time: "09:00", Content: "機場接機"}, {Time: "14:30", Content: "市場"}}, d.Activities)
	assert.Equal(t, "09:00 機場接機", d.Morning)
	assert.Equal(t, "14:30 市場", d.Afternoon)
}

func TestParse_CRLFAndYearDefault(t *testing.T) {
	res := Parse(strings.ReplaceAll(chiangMaiDay, "\n", "\r\n"))
	require.True(t, res.Success)
	require.Len(t, res.Days, 1)
	assert.True(t, strings.HasSuffix(res.Days[0].Date, "-02-12"))
	assert.Equal(t, "餐廳B", res.Days[0].Dinner)
}

func TestParse_SlotCoverage(t *testing.T) {
	res := Parse(threeDays+"\n2/15\n・a\n・b\n・夜市\n・c\n・d\n・e\n晚餐：f", WithYear(2026))
	require.True(t, res.Success)
	for _, d := range res.Days {
		var plain int
		for _, a := range d.Activities {
			if l := Classify(a.Content); l.Kind != KindMeal && l.Kind != KindAccommodation {
				plain++
			}
		}
		slotted := len(segments(d.Morning)) + len(segments(d.Afternoon))
		for _, s := range segments(d.Evening) {
			if !isEcho(s) {
				slotted++
			}
		}
		assert.Equal(t, plain, slotted, "day %s", d.Date)
	}
}

func TestParse_DateLineRest(t *testing.T) {
	res := Parse("3/1 (日) Day 3｜清邁\n・a\n3/2 古城\n・b\n3/3-3/4\n・c", WithYear(2026))
	require.Len(t, res.Days, 3)
	assert.Equal(t, 3, res.Days[0].DayNumber)
	assert.Equal(t, "清邁", res.Days[0].Title)
	assert.Equal(t, "古城", res.Days[1].Title)
	assert.Empty(t, res.Days[2].Title)
	assert.Equal(t, []Activity{{Content: "c"}}, res.Days[2].Activities)
}

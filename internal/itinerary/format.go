package itinerary

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// Format renders days in the canonical text layout, one blank line between
// days. Parsing the output and formatting again reproduces it.
func Format(days []Day) string {
	blocks := make([]string, 0, len(days))
	for _, d := range days {
		blocks = append(blocks, FormatDay(d))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatDay renders a single day.
func FormatDay(d Day) string {
	var b strings.Builder
	line := func(s string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}

	line(dateLine(d.Date))
	line(fmt.Sprintf("Day %d%s%s", d.DayNumber, dayTitleSeparator, d.Title))

	for _, m := range mealsFromActivities(d.Activities, MealBreakfast) {
		line(labelBreakfast + canonicalColon + m)
	}
	for _, s := range segments(d.Morning) {
		line(canonicalBullet + s)
	}
	if d.Lunch != "" {
		line(labelLunch + canonicalColon + d.Lunch)
	}
	for _, s := range segments(d.Afternoon) {
		line(canonicalBullet + s)
	}
	for _, m := range mealsFromActivities(d.Activities, MealAfternoonTea) {
		line(labelAfternoonTea + canonicalColon + m)
	}
	if d.Dinner != "" {
		line(labelDinner + canonicalColon + d.Dinner)
	}
	for _, s := range segments(d.Evening) {
		if isEcho(s) {
			continue
		}
		line(canonicalBullet + s)
	}
	if d.Accommodation != "" {
		line(labelAccommodation + canonicalColon + d.Accommodation)
	}
	return b.String()
}

func dateLine(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d (%s)", int(t.Month()), t.Day(), weekdayNames[t.Weekday()])
}

func segments(block string) []string {
	var out []string
	for _, s := range strings.Split(block, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isEcho reports evening lines that repeat the dinner or lodging fields.
// Stored text has its bullet removed already, so it is matched as is.
func isEcho(s string) bool {
	if m := reMeal.FindStringSubmatch(s); m != nil {
		return mealLabels[strings.ToLower(m[1])] == MealDinner
	}
	return reAccommodation.MatchString(s)
}

// mealsFromActivities recovers meals that have no dedicated Day field.
func mealsFromActivities(acts []Activity, meal MealType) []string {
	var out []string
	for _, a := range acts {
		if a.Time != "" {
			continue
		}
		m := reMeal.FindStringSubmatch(a.Content)
		if m == nil || mealLabels[strings.ToLower(m[1])] != meal {
			continue
		}
		if c := strings.TrimSpace(m[2]); c != "" {
			out = append(out, c)
		}
	}
	return out
}

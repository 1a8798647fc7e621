package itinerary

import (
	"fmt"
	"time"
)

// Validate reports structural inconsistencies in a day list: dates that do not
// strictly increase, repeated dates, and, when both startDate and endDate are
// given, a day count that differs from the declared span.
func Validate(days []Day, startDate, endDate string) []Warning {
	var out []Warning
	seen := make(map[string]int, len(days))

	for i, d := range days {
		if prev, ok := seen[d.Date]; ok {
			out = append(out, Warning{
				Code:    WarnDuplicateDate,
				Message: fmt.Sprintf("day %d repeats date %s of day %d", i+1, d.Date, prev+1),
			})
		} else if i > 0 && d.Date < days[i-1].Date {
			out = append(out, Warning{
				Code:    WarnDateNotIncreasing,
				Message: fmt.Sprintf("day %d (%s) is earlier than day %d (%s)", i+1, d.Date, i, days[i-1].Date),
			})
		}
		if _, ok := seen[d.Date]; !ok {
			seen[d.Date] = i
		}
	}

	if startDate == "" || endDate == "" {
		return out
	}
	start, err1 := time.Parse(DateLayout, startDate)
	end, err2 := time.Parse(DateLayout, endDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return out
	}
	want := int(end.Sub(start).Hours()/24) + 1
	if want != len(days) {
		out = append(out, Warning{
			Code:    WarnDayCountMismatch,
			Message: fmt.Sprintf("%s ~ %s spans %d days but the itinerary has %d", startDate, endDate, want, len(days)),
		})
	}
	return out
}

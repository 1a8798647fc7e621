package itinerary

import "strings"

// eveningKeywords mark activities that only happen after dark.
var eveningKeywords = []string{
	"夜市",
	"夜遊",
	"夜景",
	"夜間",
	"晚上",
	"酒吧",
	"night market",
	"night bazaar",
	"nightlife",
}

// Slots is the morning/afternoon/evening split of one day.
type Slots struct {
	Morning   string
	Afternoon string
	Evening   string
}

// DistributeSlots assigns plain activity lines to time slots. Evening-only
// items go to the evening; the rest is split at ceil(n/2), the first half to
// the morning. A non-empty dinner is echoed at the top of the evening block.
func DistributeSlots(items []string, dinner string) Slots {
	var regular, evening []string
	for _, it := range items {
		if IsEveningOnly(it) {
			evening = append(evening, it)
		} else {
			regular = append(regular, it)
		}
	}

	mid := (len(regular) + 1) / 2
	if dinner != "" {
		evening = append([]string{labelDinner + canonicalColon + dinner}, evening...)
	}

	return Slots{
		Morning:   strings.Join(regular[:mid], "\n"),
		Afternoon: strings.Join(regular[mid:], "\n"),
		Evening:   strings.Join(evening, "\n"),
	}
}

// IsEveningOnly reports whether an activity contains an evening-exclusive keyword.
func IsEveningOnly(item string) bool {
	lower := strings.ToLower(item)
	for _, k := range eveningKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

package itinerary

import (
	"sort"
	"strings"
	"time"
)

// DefaultGuests labels a booking that covers the whole party.
const DefaultGuests = "全團"

// hotelPalette is cycled by booking emission order.
var hotelPalette = []string{"blue", "green", "orange", "purple", "pink", "teal"}

// ConsolidateHotels folds per-day accommodation into stay ranges. Adjacent
// days (in date order) naming the same lodging form one booking whose EndDate
// is the day after the last night.
func ConsolidateHotels(days []Day) []HotelBooking {
	sorted := make([]Day, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	bookings := []HotelBooking{}
	var name, start, last string

	closeRun := func() {
		if name == "" {
			return
		}
		bookings = append(bookings, HotelBooking{
			HotelName: name,
			StartDate: start,
			EndDate:   AddDays(last, 1),
			Guests:    DefaultGuests,
			Color:     hotelPalette[len(bookings)%len(hotelPalette)],
		})
		name = ""
	}

	for _, d := range sorted {
		acc := strings.TrimSpace(d.Accommodation)
		if acc != "" && acc == name {
			last = d.Date
			continue
		}
		closeRun()
		if acc != "" {
			name, start, last = acc, d.Date, d.Date
		}
	}
	closeRun()
	return bookings
}

// AddDays shifts an ISO date by n days. Unparseable input is returned as is.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

package docschema

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
)

type document struct {
	Title string          `json:"title"`
	Days  []itinerary.Day `json:"days"`
}

// Imported is the outcome of Import.
type Imported struct {
	Title string
	// Text is the canonical itinerary text for the days.
	Text string
	// Result is Text parsed back, so days carry derived fields such as
	// activities and hotel stays.
	Result itinerary.Result
	// Changes lists what Normalize rewrote or dropped.
	Changes []string
}

// Import normalizes raw, validates it and renders the days as itinerary
// text. Schema violations wrap common.ErrValidation.
func Import(raw []byte, logger *slog.Logger) (*Imported, error) {
	normalized, changes, err := Normalize(raw, logger)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrInvalidInput)
	}
	if err := Validate(normalized); err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrValidation)
	}

	var doc document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("decode days: %w", err)
	}

	year := 0
	for i := range doc.Days {
		d := &doc.Days[i]
		if _, err := time.Parse(itinerary.DateLayout, d.Date); err != nil {
			return nil, fmt.Errorf("days[%d].date %q is not a calendar date: %w", i, d.Date, common.ErrValidation)
		}
		if year == 0 {
			year, _ = yearOf(d.Date)
		}
		if d.DayNumber == 0 {
			d.DayNumber = i + 1
		}
		if d.Morning == "" && d.Afternoon == "" && d.Evening == "" && len(d.Activities) > 0 {
			items := make([]string, 0, len(d.Activities))
			for _, a := range d.Activities {
				if a.Time != "" {
					items = append(items, a.Time+" "+a.Content)
				} else {
					items = append(items, a.Content)
				}
			}
			slots := itinerary.DistributeSlots(items, "")
			d.Morning, d.Afternoon, d.Evening = slots.Morning, slots.Afternoon, slots.Evening
		}
	}

	text := itinerary.Format(doc.Days)
	return &Imported{
		Title:   doc.Title,
		Text:    text,
		Result:  itinerary.Parse(text, itinerary.WithYear(year)),
		Changes: changes,
	}, nil
}

func yearOf(date string) (int, error) {
	t, err := time.Parse(itinerary.DateLayout, date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

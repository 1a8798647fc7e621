package itinerary

import (
	"fmt"
	"strings"
	"time"
)

// ErrNoDays is the Result.Error text when no date marker was found.
const ErrNoDays = "no date markers found"

type options struct {
	year int
}

// Option configures Parse.
type Option func(*options)

// WithYear sets the year applied to every M/D date line. Values <= 0 are ignored.
func WithYear(year int) Option {
	return func(o *options) {
		if year > 0 {
			o.year = year
		}
	}
}

// Parse turns itinerary text into day records. It never fails on content:
// text without any date marker yields Result{Success: false}.
func Parse(text string, opts ...Option) Result {
	o := options{year: time.Now().Year()}
	for _, opt := range opts {
		opt(&o)
	}

	acc := &accumulator{year: o.year}
	for i, raw := range SplitLines(text) {
		acc.feed(i+1, raw)
	}
	acc.flush()

	res := Result{
		Days:     acc.days,
		Hotels:   []HotelBooking{},
		Warnings: acc.warnings,
	}
	if len(acc.days) == 0 {
		res.Days = []Day{}
		res.Error = ErrNoDays
		return res
	}
	res.Success = true
	res.Hotels = ConsolidateHotels(acc.days)
	res.Warnings = append(res.Warnings, Validate(acc.days, "", "")...)
	return res
}

// SplitLines normalizes line endings and splits text into lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// accumulator is the day builder state threaded through the line stream.
// cur == nil is the NoActiveDay state.
type accumulator struct {
	year     int
	days     []Day
	warnings []Warning
	cur      *dayDraft
}

type dayDraft struct {
	day   Day
	plain []string
	raw   []string
}

func (a *accumulator) feed(lineNo int, raw string) {
	l := Classify(raw)

	if l.Kind == KindDate {
		date := time.Date(a.year, time.Month(l.Month), l.Day, 0, 0, 0, 0, time.UTC)
		if int(date.Month()) == l.Month {
			a.flush()
			a.cur = &dayDraft{
				day: Day{
					Date:       date.Format(DateLayout),
					DayNumber:  len(a.days) + 1,
					Activities: []Activity{},
				},
				raw: []string{raw},
			}
			a.dateLineRest(l.Content)
			return
		}
		a.warnings = append(a.warnings, Warning{
			Code:    WarnInvalidDate,
			Message: fmt.Sprintf("%d/%d is not a valid date in %d", l.Month, l.Day, a.year),
			Line:    lineNo,
		})
		l.Kind = KindText
		l.Content = l.Text
	}

	if a.cur == nil {
		return
	}
	d := a.cur
	d.raw = append(d.raw, raw)

	switch l.Kind {
	case KindDayTitle:
		d.day.DayNumber = l.DayNumber
		d.day.Title = l.Title
	case KindMeal:
		switch l.Meal {
		case MealLunch:
			d.day.Lunch = l.Content
		case MealDinner:
			d.day.Dinner = l.Content
		}
		d.day.Activities = append(d.day.Activities, Activity{Content: l.Text})
	case KindAccommodation:
		d.day.Accommodation = l.Content
		d.day.Activities = append(d.day.Activities, Activity{Content: l.Text})
	case KindBullet, KindText:
		if l.Content == "" {
			return
		}
		d.plain = append(d.plain, l.Content)
		d.day.Activities = append(d.day.Activities, toActivity(l.Content))
	}
}

// dateLineRest reads text after the date on a date line: "Day N｜title"
// sets number and title, plain text becomes the title. Bulleted or
// labelled remainders (e.g. "-3/16" of a range) are ignored.
func (a *accumulator) dateLineRest(rest string) {
	if rest == "" {
		return
	}
	l := Classify(rest)
	switch l.Kind {
	case KindDayTitle:
		a.cur.day.DayNumber = l.DayNumber
		a.cur.day.Title = l.Title
	case KindText:
		a.cur.day.Title = l.Content
	}
}

func (a *accumulator) flush() {
	if a.cur == nil {
		return
	}
	d := a.cur
	a.cur = nil

	slots := DistributeSlots(d.plain, d.day.Dinner)
	d.day.Morning = slots.Morning
	d.day.Afternoon = slots.Afternoon
	d.day.Evening = slots.Evening

	raw := d.raw
	for len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}
	d.day.RawText = strings.Join(raw, "\n")

	a.days = append(a.days, d.day)
}

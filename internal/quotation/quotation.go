// Package quotation extracts priced line items and the declared total from
// the quotation block of an itinerary.
package quotation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Item is one priced entry. Date is empty for items that apply to the whole trip.
type Item struct {
	Date        string  `json:"date,omitempty"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
}

// Amount is UnitPrice times Quantity.
func (i Item) Amount() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Quotation holds items in input order. Total is the figure the author wrote
// down; it is never derived from Items.
type Quotation struct {
	Items []Item   `json:"items"`
	Total *float64 `json:"total,omitempty"`
	Note  string   `json:"note,omitempty"`
}

// Sum adds up item amounts for callers that want to cross-check Total.
func (q Quotation) Sum() float64 {
	var s float64
	for _, it := range q.Items {
		s += it.Amount()
	}
	return s
}

const amount = `(?:NT\$|\$)?\s*([\d,]+(?:\.\d+)?)`

var (
	reTotal = regexp.MustCompile(`^(?:小計|總計|合計|總價|(?i:subtotal|total))\s*[:：]?\s*` + amount + `\s*元?\s*$`)
	reNote  = regexp.MustCompile(`^(?:備註|註|(?i:notes?))\s*[:：]\s*(.*)$`)
	// control labels: CJK ones end the line or take a colon, latin ones
	// must be whole words
	reSkip = regexp.MustCompile(`^(?:(?:小計|總計|合計|總價|備註|報價|費用)\s*(?:[:：]|$)|(?i:subtotal|total|notes?|quotation)\b)`)

	reMultiplier = regexp.MustCompile(`^(?:(\d{1,2})\s*/\s*(\d{1,2})\s+)?(.+?)\s+` + amount + `\s*[*xX×]\s*(\d+)\s*(\S*)$`)
	reDated      = regexp.MustCompile(`^(\d{1,2})\s*/\s*(\d{1,2})\s+(.+?)\s+` + amount + `\s*元?$`)
	reUndated    = regexp.MustCompile(`^(.+?)\s+` + amount + `\s*元?$`)
)

type options struct {
	year int
}

// Option configures Parse.
type Option func(*options)

// WithYear sets the year applied to M/D item dates.
func WithYear(year int) Option {
	return func(o *options) {
		if year > 0 {
			o.year = year
		}
	}
}

// Parse reads text line by line; the first matching shape wins and lines
// that match nothing are ignored.
func Parse(text string, opts ...Option) Quotation {
	o := options{year: time.Now().Year()}
	for _, opt := range opts {
		opt(&o)
	}

	q := Quotation{Items: []Item{}}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "・•·●-"))
		if line == "" {
			continue
		}
		if m := reTotal.FindStringSubmatch(line); m != nil {
			if v, ok := parseAmount(m[1]); ok {
				q.Total = &v
			}
			continue
		}
		if m := reNote.FindStringSubmatch(line); m != nil {
			q.Note = strings.TrimSpace(m[1])
			continue
		}
		if reSkip.MatchString(line) {
			continue
		}
		if it, ok := parseItem(line, o.year); ok {
			q.Items = append(q.Items, it)
		}
	}
	return q
}

func parseItem(line string, year int) (Item, bool) {
	if m := reMultiplier.FindStringSubmatch(line); m != nil {
		price, ok := parseAmount(m[4])
		if !ok {
			return Item{}, false
		}
		qty, err := strconv.Atoi(m[5])
		if err != nil || qty < 1 {
			return Item{}, false
		}
		return Item{
			Date:        itemDate(year, m[1], m[2]),
			Description: strings.TrimSpace(m[3]),
			UnitPrice:   price,
			Quantity:    qty,
			Unit:        m[6],
		}, true
	}
	if m := reDated.FindStringSubmatch(line); m != nil {
		price, ok := parseAmount(m[4])
		if !ok {
			return Item{}, false
		}
		return Item{
			Date:        itemDate(year, m[1], m[2]),
			Description: strings.TrimSpace(m[3]),
			UnitPrice:   price,
			Quantity:    1,
		}, true
	}
	if m := reUndated.FindStringSubmatch(line); m != nil {
		price, ok := parseAmount(m[2])
		if !ok {
			return Item{}, false
		}
		return Item{
			Description: strings.TrimSpace(m[1]),
			UnitPrice:   price,
			Quantity:    1,
		}, true
	}
	return Item{}, false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func itemDate(year int, month, day string) string {
	if month == "" {
		return ""
	}
	m, err1 := strconv.Atoi(month)
	d, err2 := strconv.Atoi(day)
	if err1 != nil || err2 != nil {
		return ""
	}
	t := time.Date(year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != m || t.Day() != d {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, m, d)
}

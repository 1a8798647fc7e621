// Package document parses the three blocks of a trip document (basic info,
// day-by-day itinerary, quotation) together so they share one year.
package document

import (
	"regexp"
	"strings"
	"time"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/basicinfo"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
)

// Input carries the raw text of each block. Any block may be empty.
type Input struct {
	BasicInfo string
	Itinerary string
	Quotation string
}

// Document is the combined parse.
type Document struct {
	BasicInfo basicinfo.BasicInfo `json:"basicInfo"`
	Itinerary itinerary.Result    `json:"itinerary"`
	Quotation quotation.Quotation `json:"quotation"`
	Year      int                 `json:"year"`
}

// Parse runs every extractor. year <= 0 means "use the start year from the
// basic-info block", falling back to the current year.
func Parse(in Input, year int) Document {
	info := basicinfo.Parse(in.BasicInfo)
	if year <= 0 {
		year = info.StartYear()
	}

	var itOpts []itinerary.Option
	var qOpts []quotation.Option
	if year > 0 {
		itOpts = append(itOpts, itinerary.WithYear(year))
		qOpts = append(qOpts, quotation.WithYear(year))
	}

	res := itinerary.Parse(in.Itinerary, itOpts...)
	if res.Success && info.StartDate != "" && info.EndDate != "" {
		for _, w := range itinerary.Validate(res.Days, info.StartDate, info.EndDate) {
			if w.Code == itinerary.WarnDayCountMismatch {
				res.Warnings = append(res.Warnings, w)
			}
		}
	}

	doc := Document{
		BasicInfo: info,
		Itinerary: res,
		Quotation: quotation.Parse(in.Quotation, qOpts...),
		Year:      year,
	}
	if doc.Year <= 0 && len(res.Days) > 0 {
		doc.Year = yearOf(res.Days[0].Date)
	}
	return doc
}

// Section names recognised by Split.
const (
	SectionBasicInfo = "basicinfo"
	SectionItinerary = "itinerary"
	SectionQuotation = "quotation"
)

var reHeader = regexp.MustCompile(`^(?:#+\s*|【|\[)?\s*(基本資訊|基本資料|行程|報價|(?i:basic info|itinerary|quotation))\s*(?:】|\])?\s*[:：]?$`)

var headerSection = map[string]string{
	"基本資訊":       SectionBasicInfo,
	"基本資料":       SectionBasicInfo,
	"basic info": SectionBasicInfo,
	"行程":         SectionItinerary,
	"itinerary":  SectionItinerary,
	"報價":         SectionQuotation,
	"quotation":  SectionQuotation,
}

// Split cuts a single text into blocks using header lines such as 【行程】 or
// "# Quotation". Text before the first header belongs to the itinerary.
func Split(text string) Input {
	parts := map[string][]string{}
	current := SectionItinerary
	for _, line := range itinerary.SplitLines(text) {
		if m := reHeader.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			current = headerSection[strings.ToLower(m[1])]
			continue
		}
		parts[current] = append(parts[current], line)
	}
	join := func(k string) string { return strings.TrimSpace(strings.Join(parts[k], "\n")) }
	return Input{
		BasicInfo: join(SectionBasicInfo),
		Itinerary: join(SectionItinerary),
		Quotation: join(SectionQuotation),
	}
}

// ParseText is Split followed by Parse.
func ParseText(text string, year int) Document {
	return Parse(Split(text), year)
}

func yearOf(date string) int {
	t, err := time.Parse(itinerary.DateLayout, date)
	if err != nil {
		return 0
	}
	return t.Year()
}

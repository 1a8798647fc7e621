// Package basicinfo extracts trip facts (client, dates, headcount, logistics
// notes) from the free-form "basic info" block of an itinerary.
package basicinfo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BasicInfo is a flat record where every field is optional.
type BasicInfo struct {
	ClientName   string `json:"clientName,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Adults       *int   `json:"adults,omitempty"`
	Children     *int   `json:"children,omitempty"`
	ChildrenAges string `json:"childrenAges,omitempty"`
	GroupType    string `json:"groupType,omitempty"`
	TotalPeople  *int   `json:"totalPeople,omitempty"`
	LuggageNote  string `json:"luggageNote,omitempty"`
	VehicleNote  string `json:"vehicleNote,omitempty"`
	GuideNote    string `json:"guideNote,omitempty"`
}

// StartYear returns the year of StartDate, or 0 when unknown.
func (b BasicInfo) StartYear() int {
	t, err := time.Parse("2006-01-02", b.StartDate)
	if err != nil {
		return 0
	}
	return t.Year()
}

// IsEmpty reports whether no rule matched.
func (b BasicInfo) IsEmpty() bool {
	return b == BasicInfo{}
}

// rule is one labelled pattern. Rules are tried in order and the first one
// matching a line is the only one applied to it.
type rule struct {
	name  string
	re    *regexp.Regexp
	apply func(m []string, info *BasicInfo)
}

const agesSuffix = `(?:\s*[位人名個]?\s*[(（]([^)）]*)[)）])?`

var rules = []rule{
	{
		name: "client",
		re:   regexp.MustCompile(`^(?:客戶姓名|客戶名稱|客戶|客人|貴賓|姓名|(?i:client name|client|name))\s*[:：]\s*(.+)$`),
		apply: func(m []string, info *BasicInfo) {
			info.ClientName = strings.TrimSpace(m[1])
		},
	},
	{
		name: "date-range",
		re: regexp.MustCompile(`(\d{4})\s*/\s*(\d{1,2})\s*/\s*(\d{1,2})(?:\s*[(（][^)）]*[)）])?\s*[~～〜\-–—至到]\s*` +
			`(?:(\d{4})\s*/\s*)?(\d{1,2})\s*/\s*(\d{1,2})`),
		apply: func(m []string, info *BasicInfo) {
			startYear := atoi(m[1])
			endYear := startYear
			if m[4] != "" {
				endYear = atoi(m[4])
			}
			if s, ok := isoDate(startYear, atoi(m[2]), atoi(m[3])); ok {
				info.StartDate = s
			}
			if e, ok := isoDate(endYear, atoi(m[5]), atoi(m[6])); ok {
				info.EndDate = e
			}
		},
	},
	{
		name:  "compact-headcount",
		re:    regexp.MustCompile(`(\d+)\s*大\s*(\d+)\s*小` + agesSuffix),
		apply: applyHeadcount,
	},
	{
		name:  "labelled-headcount",
		re:    regexp.MustCompile(`成人\s*[:：]?\s*(\d+).*?(?:小朋友|小孩|兒童)\s*[:：]?\s*(\d+)` + agesSuffix),
		apply: applyHeadcount,
	},
	{
		name: "total",
		re:   regexp.MustCompile(`^(?:總人數|人數|總共|共計|(?i:total people|total|pax))\s*[:：]?\s*(\d+)`),
		apply: func(m []string, info *BasicInfo) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				info.TotalPeople = &n
			}
		},
	},
	textRule("group-type", `團型|團體類型|類型|(?i:group type|group)`, func(info *BasicInfo, v string) { info.GroupType = v }),
	textRule("luggage", `行李|(?i:luggage|baggage)`, func(info *BasicInfo, v string) { info.LuggageNote = v }),
	textRule("vehicle", `用車|車型|車輛|交通|(?i:vehicle|car)`, func(info *BasicInfo, v string) { info.VehicleNote = v }),
	textRule("guide", `導遊|(?i:guide)`, func(info *BasicInfo, v string) { info.GuideNote = v }),
}

func textRule(name, labels string, set func(*BasicInfo, string)) rule {
	return rule{
		name: name,
		re:   regexp.MustCompile(`^(?:` + labels + `)\s*[:：]\s*(.+)$`),
		apply: func(m []string, info *BasicInfo) {
			set(info, strings.TrimSpace(m[1]))
		},
	}
}

func applyHeadcount(m []string, info *BasicInfo) {
	adults, err1 := strconv.Atoi(m[1])
	children, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return
	}
	total := adults + children
	info.Adults = &adults
	info.Children = &children
	info.TotalPeople = &total
	if ages := strings.TrimSpace(m[3]); ages != "" {
		info.ChildrenAges = ages
	}
}

// Parse extracts what it can from text. Lines that match no rule are ignored.
func Parse(text string) BasicInfo {
	var info BasicInfo
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		line = normalizeLine(line)
		if line == "" {
			continue
		}
		for _, r := range rules {
			if m := r.re.FindStringSubmatch(line); m != nil {
				r.apply(m, &info)
				break
			}
		}
	}
	return info
}

// normalizeLine trims the line and drops leading bullet glyphs.
func normalizeLine(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "・•·-*●"))
}

// MatchRule returns the name of the rule Parse would apply to line, or "".
func MatchRule(line string) string {
	line = normalizeLine(line)
	if line == "" {
		return ""
	}
	for _, r := range rules {
		if r.re.MatchString(line) {
			return r.name
		}
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func isoDate(y, m, d int) (string, bool) {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), true
}

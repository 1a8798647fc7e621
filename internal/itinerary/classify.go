package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind tags one input line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindDate
	KindDayTitle
	KindMeal
	KindAccommodation
	KindBullet
	KindText
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindDate:
		return "date"
	case KindDayTitle:
		return "day-title"
	case KindMeal:
		return "meal"
	case KindAccommodation:
		return "accommodation"
	case KindBullet:
		return "bullet"
	case KindText:
		return "text"
	}
	return "unknown"
}

// MealType is the normalized meal of a meal-marker line.
type MealType string

const (
	MealBreakfast    MealType = "breakfast"
	MealLunch        MealType = "lunch"
	MealDinner       MealType = "dinner"
	MealAfternoonTea MealType = "afternoon_tea"
)

// Canonical labels the formatter writes.
const (
	labelBreakfast     = "早餐"
	labelLunch         = "午餐"
	labelDinner        = "晚餐"
	labelAfternoonTea  = "下午茶"
	labelAccommodation = "住宿"
	canonicalBullet    = "・"
	canonicalColon     = "："
	dayTitleSeparator  = "｜"
)

var bulletGlyphs = []string{"・", "•", "·", "●", "○", "◆", "▪", "★", "–", "-", "*"}

var mealLabels = map[string]MealType{
	"早餐":            MealBreakfast,
	"breakfast":     MealBreakfast,
	"午餐":            MealLunch,
	"中餐":            MealLunch,
	"lunch":         MealLunch,
	"晚餐":            MealDinner,
	"dinner":        MealDinner,
	"下午茶":           MealAfternoonTea,
	"afternoon tea": MealAfternoonTea,
}

var (
	reDate          = regexp.MustCompile(`^(\d{1,2})\s*/\s*(\d{1,2})(?:\s*[(（][^)）]*[)）])?`)
	reDayTitle      = regexp.MustCompile(`(?i)^day\s*(\d+)\s*[｜|丨]\s*(.*)$`)
	reMeal          = regexp.MustCompile(`^(早餐|午餐|中餐|晚餐|下午茶|(?i:afternoon tea|breakfast|lunch|dinner))\s*[:：]\s*(.*)$`)
	reAccommodation = regexp.MustCompile(`^(住宿|飯店|酒店|(?i:accommodation|lodging|hotel))\s*[:：]\s*(.*)$`)
	reClock         = regexp.MustCompile(`^(\d{1,2})[:：](\d{2})\s+(.+)$`)
)

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Line is one classified input line plus its captured payload.
type Line struct {
	Kind LineKind
	Raw  string
	// Text is the trimmed line with one leading bullet removed.
	Text string

	Month int
	Day   int

	DayNumber int
	Title     string

	Meal MealType
	// Content is the meal text, the hotel name, the activity text, or
	// whatever follows the date on a date line.
	Content string
}

// Classify tags a single line. The first matching rule wins:
// date, day title, meal, accommodation, bullet, free text.
func Classify(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	l := Line{Raw: raw, Text: trimmed}
	if trimmed == "" {
		l.Kind = KindBlank
		return l
	}

	if m := reDate.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= daysInMonth[month] {
			l.Kind = KindDate
			l.Month, l.Day = month, day
			l.Content = strings.TrimSpace(trimmed[len(m[0]):])
			return l
		}
	}

	if m := reDayTitle.FindStringSubmatch(trimmed); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			l.Kind = KindDayTitle
			l.DayNumber = n
			l.Title = strings.TrimSpace(m[2])
			return l
		}
	}

	body, bulleted := stripBullet(trimmed)
	l.Text = body

	if m := reMeal.FindStringSubmatch(body); m != nil {
		l.Kind = KindMeal
		l.Meal = mealLabels[strings.ToLower(m[1])]
		l.Content = strings.TrimSpace(m[2])
		return l
	}

	if m := reAccommodation.FindStringSubmatch(body); m != nil {
		l.Kind = KindAccommodation
		l.Content = strings.TrimSpace(m[2])
		return l
	}

	l.Content = body
	if bulleted {
		l.Kind = KindBullet
	} else {
		l.Kind = KindText
	}
	return l
}

func stripBullet(s string) (string, bool) {
	for _, g := range bulletGlyphs {
		if strings.HasPrefix(s, g) {
			return strings.TrimSpace(strings.TrimPrefix(s, g)), true
		}
	}
	return s, false
}

// toActivity splits an optional leading clock time from activity text.
func toActivity(text string) Activity {
	if m := reClock.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h <= 23 && mm <= 59 {
			return Activity{Time: m[1] + ":" + m[2], Content: strings.TrimSpace(m[3])}
		}
	}
	return Activity{Content: text}
}

func mealLabel(t MealType) string {
	switch t {
	case MealBreakfast:
		return labelBreakfast
	case MealLunch:
		return labelLunch
	case MealDinner:
		return labelDinner
	case MealAfternoonTea:
		return labelAfternoonTea
	}
	return ""
}

package itinerary

// DateLayout is the zero-padded ISO form every Day.Date uses.
const DateLayout = "2006-01-02"

// Activity is one mention of something happening during a day.
type Activity struct {
	Time    string `json:"time,omitempty"`
	Content string `json:"content"`
}

// Day is the structured form of one calendar day of an itinerary.
//
// Morning, Afternoon and Evening are derived, newline-joined blocks. Activities
// is the authoritative record: every meal, lodging and plain activity line of
// the day in input order.
type Day struct {
	Date          string     `json:"date"`
	DayNumber     int        `json:"dayNumber"`
	Title         string     `json:"title"`
	Morning       string     `json:"morning"`
	Afternoon     string     `json:"afternoon"`
	Evening       string     `json:"evening"`
	Lunch         string     `json:"lunch,omitempty"`
	Dinner        string     `json:"dinner,omitempty"`
	Accommodation string     `json:"accommodation,omitempty"`
	Activities    []Activity `json:"activities"`
	RawText       string     `json:"rawText"`
}

// HotelBooking is a consolidated stay range. EndDate is the checkout date.
type HotelBooking struct {
	HotelName string `json:"hotelName"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Guests    string `json:"guests"`
	Color     string `json:"color"`
}

// Result is the outcome of one Parse call.
type Result struct {
	Success  bool           `json:"success"`
	Days     []Day          `json:"days"`
	Hotels   []HotelBooking `json:"hotels"`
	Warnings []Warning      `json:"warnings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// WarningCode identifies the kind of structural inconsistency.
type WarningCode string

const (
	WarnDateNotIncreasing WarningCode = "DATE_NOT_INCREASING"
	WarnDuplicateDate     WarningCode = "DUPLICATE_DATE"
	WarnInvalidDate       WarningCode = "INVALID_DATE"
	WarnDayCountMismatch  WarningCode = "DAY_COUNT_MISMATCH"
)

// Warning is a non-fatal validation finding attached to a Result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Line    int         `json:"line,omitempty"`
}

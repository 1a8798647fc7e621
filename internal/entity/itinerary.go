package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/basicinfo"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
)

// Itinerary is a stored parse result for data transfer between layers.
type Itinerary struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	ClientName  string                   `json:"client_name"`
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	Year        int                      `json:"year"`
	SourcePath  string                   `json:"source_path,omitempty"`
	ContentHash string                   `json:"content_hash,omitempty"`
	RawText     string                   `json:"raw_text"`
	BasicInfo   basicinfo.BasicInfo      `json:"basic_info"`
	Days        []itinerary.Day          `json:"days"`
	Hotels      []itinerary.HotelBooking `json:"hotels"`
	Quotation   *Quotation               `json:"quotation,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// DayCount is the number of stored days.
func (i *Itinerary) DayCount() int {
	return len(i.Days)
}

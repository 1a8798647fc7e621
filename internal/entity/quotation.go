package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
)

// Quotation is the stored price breakdown attached to one itinerary.
type Quotation struct {
	ID          uuid.UUID        `json:"id"`
	ItineraryID uuid.UUID        `json:"itinerary_id"`
	Items       []quotation.Item `json:"items"`
	Total       *float64         `json:"total,omitempty"`
	Note        string           `json:"note,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Model converts the record back to the extractor's type.
func (q *Quotation) Model() quotation.Quotation {
	items := q.Items
	if items == nil {
		items = []quotation.Item{}
	}
	return quotation.Quotation{Items: items, Total: q.Total, Note: q.Note}
}

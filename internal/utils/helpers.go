package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
)

// ToStruct converts any JSON-encodable value into a protobuf Struct, using
// the value's json tags as field names.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode: value is not an object: %w", err)
	}
	return structpb.NewStruct(m)
}

// FromStruct decodes s into dst through its json tags. A nil Struct leaves
// dst untouched.
func FromStruct(s *structpb.Struct, dst any) error {
	if s == nil {
		return nil
	}
	raw, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// ItinerarySummary is the list view of a stored itinerary.
type ItinerarySummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ClientName string `json:"client_name,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	SourcePath string `json:"source_path,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func ToSummary(r *entity.Itinerary) ItinerarySummary {
	return ItinerarySummary{
		ID:         r.ID.String(),
		Title:      r.Title,
		ClientName: r.ClientName,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		SourcePath: r.SourcePath,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToSummaries(recs []*entity.Itinerary) []ItinerarySummary {
	out := make([]ItinerarySummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, ToSummary(r))
	}
	return out
}

package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
)

// Format is an export file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "xlsx" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q: %w", s, common.ErrInvalidInput)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Service loads stored itineraries and renders them as documents.
type Service struct {
	itineraries repository.ItineraryRepository
	pdf         PDFOptions
	logger      *slog.Logger
}

func NewService(repo repository.ItineraryRepository, pdf PDFOptions, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{itineraries: repo, pdf: pdf, logger: logger}
}

// Export returns the document bytes and a suggested file name.
func (s *Service) Export(ctx context.Context, id uuid.UUID, format Format) ([]byte, string, error) {
	start := time.Now()

	rec, err := s.itineraries.Get(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("load itinerary: %w", err)
	}

	var data []byte
	switch format {
	case FormatXLSX:
		data, err = BuildXLSX(rec)
	case FormatPDF:
		data, err = BuildPDF(rec, s.pdf)
	default:
		return nil, "", fmt.Errorf("unknown export format %q: %w", format, common.ErrInvalidInput)
	}
	if err != nil {
		s.logger.Error("export.failed", "itinerary_id", id.String(), "format", string(format), "error", err)
		return nil, "", err
	}

	name := fmt.Sprintf("itinerary-%s.%s", fileStem(rec.StartDate, id), format)
	s.logger.Info("export.ok",
		"itinerary_id", id.String(),
		"format", string(format),
		"days", rec.DayCount(),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return data, name, nil
}

func fileStem(startDate string, id uuid.UUID) string {
	if startDate != "" {
		return startDate + "-" + id.String()[:8]
	}
	return id.String()
}

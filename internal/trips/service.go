// Package trips holds the itinerary business logic shared by the gRPC
// server, the CLI and the ingest pipeline.
package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/document"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
)

// maxTextRunes bounds a single submitted document.
const maxTextRunes = 200_000

// Service handles itinerary business logic.
type Service struct {
	itineraries repository.ItineraryRepository
	quotations  repository.QuotationRepository
	defaultYear int
	logger      *slog.Logger
}

// NewService creates a new itinerary service. defaultYear <= 0 lets each
// document pick its own year.
func NewService(itineraries repository.ItineraryRepository, quotations repository.QuotationRepository, defaultYear int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		itineraries: itineraries,
		quotations:  quotations,
		defaultYear: defaultYear,
		logger:      logger,
	}
}

// SaveRequest carries a whole trip document to parse and store.
type SaveRequest struct {
	Text        string
	Title       string
	Year        int
	SourcePath  string
	ContentHash string
}

// Parse runs the extractors without storing anything.
func (s *Service) Parse(text string, year int) document.Document {
	if year <= 0 {
		year = s.defaultYear
	}
	return document.ParseText(text, year)
}

// Save parses req.Text and stores the result. Text without any day is
// rejected with common.ErrNoItinerary.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*entity.Itinerary, error) {
	v := common.NewValidator().
		Field("text", req.Text, common.Required, common.MaxLength(maxTextRunes)).
		Field("year", req.Year, common.YearRange).
		Field("title", req.Title, common.MaxLength(200))
	if v.HasErrors() {
		s.logger.Error("save itinerary request invalid", "error", v.ErrorMessage())
		return nil, fmt.Errorf("%s: %w", v.ErrorMessage(), common.ErrInvalidInput)
	}

	doc := s.Parse(req.Text, req.Year)
	if !doc.Itinerary.Success {
		s.logger.Warn("itinerary.parse.empty", "source_path", req.SourcePath)
		return nil, common.ErrNoItinerary
	}

	rec := &entity.Itinerary{
		Title:       titleFor(req, doc),
		ClientName:  doc.BasicInfo.ClientName,
		StartDate:   doc.BasicInfo.StartDate,
		EndDate:     doc.BasicInfo.EndDate,
		Year:        doc.Year,
		SourcePath:  req.SourcePath,
		ContentHash: req.ContentHash,
		RawText:     req.Text,
		BasicInfo:   doc.BasicInfo,
		Days:        doc.Itinerary.Days,
	}
	if rec.StartDate == "" {
		rec.StartDate = doc.Itinerary.Days[0].Date
		rec.EndDate = doc.Itinerary.Days[len(doc.Itinerary.Days)-1].Date
	}
	if len(doc.Quotation.Items) > 0 || doc.Quotation.Total != nil {
		rec.Quotation = &entity.Quotation{Items: doc.Quotation.Items, Total: doc.Quotation.Total, Note: doc.Quotation.Note}
	}

	saved, err := s.itineraries.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}
	s.logger.Info("itinerary.save.ok",
		"itinerary_id", saved.ID.String(),
		"days", saved.DayCount(),
		"hotels", len(saved.Hotels),
		"warnings", len(doc.Itinerary.Warnings),
	)
	return saved, nil
}

// Get loads one itinerary by its string ID.
func (s *Service) Get(ctx context.Context, id string) (*entity.Itinerary, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rec, err := s.itineraries.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get itinerary: %w", err)
	}
	return rec, nil
}

// FindByHash returns the itinerary stored from content with the given hash.
func (s *Service) FindByHash(ctx context.Context, hash string) (*entity.Itinerary, error) {
	return s.itineraries.GetByHash(ctx, hash)
}

// ListRequest represents itinerary listing parameters.
type ListRequest struct {
	FromDate   string
	ToDate     string
	ClientName string
	Limit      int
	Offset     int
}

// List returns stored itineraries without their days.
func (s *Service) List(ctx context.Context, req ListRequest) ([]*entity.Itinerary, error) {
	v := common.NewValidator().
		Field("from_date", req.FromDate, common.ISODate).
		Field("to_date", req.ToDate, common.ISODate)
	if v.HasErrors() {
		return nil, fmt.Errorf("%s: %w", v.ErrorMessage(), common.ErrInvalidInput)
	}
	recs, err := s.itineraries.List(ctx, repository.ListFilter{
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		ClientName: strings.TrimSpace(req.ClientName),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	s.logger.Info("itineraries listed", "count", len(recs))
	return recs, nil
}

// Delete removes an itinerary with its days and quotation.
func (s *Service) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.itineraries.Delete(ctx, uid); err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	s.logger.Info("itinerary.delete.ok", "itinerary_id", id)
	return nil
}

// GetQuotation returns the stored quotation of an itinerary.
func (s *Service) GetQuotation(ctx context.Context, id string) (*entity.Quotation, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.quotations.GetByItinerary(ctx, uid)
}

// ReplaceQuotation parses text as a quotation block and stores it in place
// of the current one. Item dates use the itinerary's year.
func (s *Service) ReplaceQuotation(ctx context.Context, id, text string) (*entity.Quotation, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var opts []quotation.Option
	if rec.Year > 0 {
		opts = append(opts, quotation.WithYear(rec.Year))
	}
	q, err := s.quotations.Replace(ctx, rec.ID, quotation.Parse(text, opts...))
	if err != nil {
		return nil, fmt.Errorf("replace quotation: %w", err)
	}
	return q, nil
}

func parseID(id string) (uuid.UUID, error) {
	if v := common.NewValidator().Field("id", strings.TrimSpace(id), common.UUID); v.HasErrors() {
		return uuid.Nil, fmt.Errorf("%s: %w", v.ErrorMessage(), common.ErrInvalidInput)
	}
	return uuid.MustParse(strings.TrimSpace(id)), nil
}

func titleFor(req SaveRequest, doc document.Document) string {
	if t := strings.TrimSpace(req.Title); t != "" {
		return t
	}
	if req.SourcePath != "" {
		base := filepath.Base(req.SourcePath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	if doc.BasicInfo.ClientName != "" {
		return doc.BasicInfo.ClientName
	}
	for _, d := range doc.Itinerary.Days {
		if d.Title != "" {
			return d.Title
		}
	}
	return doc.Itinerary.Days[0].Date
}

// IsNotFound reports whether err means the itinerary does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

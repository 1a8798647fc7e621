package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
)

func sampleItinerary() *entity.Itinerary {
	res := itinerary.Parse("2/12\nDay 1｜抵達\n・接機\n住宿：Hotel A\n2/13\nDay 2｜Old town\n・Temple\n午餐：Noodles\n・Massage\n住宿：Hotel A", itinerary.WithYear(2026))
	q := quotation.Parse("2/12 接機 3200\n導遊 2500*2天\n小計: 8200\n備註：含稅", quotation.WithYear(2026))
	return &entity.Itinerary{
		ID:         uuid.New(),
		Title:      "Chiang Mai",
		ClientName: "Jane",
		StartDate:  "2026-02-12",
		EndDate:    "2026-02-13",
		Days:       res.Days,
		Hotels:     res.Hotels,
		Quotation:  &entity.Quotation{Items: q.Items, Total: q.Total, Note: q.Note},
	}
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(sampleItinerary())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetItinerary, SheetHotels, SheetQuotation}, f.GetSheetList())

	days, err := f.GetRows(SheetItinerary)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "Date", days[0][0])
	assert.Equal(t, "2026-02-13", days[2][0])
	assert.Equal(t, "Fri", days[2][1])
	assert.Equal(t, "Old town", days[2][3])
	assert.Equal(t, "Noodles", days[2][5])

	hotels, err := f.GetRows(SheetHotels)
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	assert.Equal(t, []string{"Hotel A", "2026-02-12", "2026-02-14", "2", "全團"}, hotels[1])

	quote, err := f.GetRows(SheetQuotation)
	require.NoError(t, err)
	require.Len(t, quote, 5)
	assert.Equal(t, "導遊", quote[2][1])
	assert.Equal(t, "5000", quote[2][5])
	assert.Equal(t, "8200", quote[3][5])
	assert.Equal(t, "含稅", quote[4][2])
}

func TestBuildXLSX_NoQuotation(t *testing.T) {
	rec := sampleItinerary()
	rec.Quotation = nil
	rec.Hotels = nil

	data, err := BuildXLSX(rec)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	hotels, err := f.GetRows(SheetHotels)
	require.NoError(t, err)
	assert.Len(t, hotels, 2)

	quote, err := f.GetRows(SheetQuotation)
	require.NoError(t, err)
	assert.Len(t, quote, 1)
}

func TestBuildPDF_CoreFont(t *testing.T) {
	data, err := BuildPDF(sampleItinerary(), PDFOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestBuildPDF_MissingFont(t *testing.T) {
	_, err := BuildPDF(sampleItinerary(), PDFOptions{FontPath: "/nonexistent/font.ttf"})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

type stubRepo struct {
	repository.ItineraryRepository
	rec *entity.Itinerary
}

func (s stubRepo) Get(_ context.Context, id uuid.UUID) (*entity.Itinerary, error) {
	if s.rec == nil || s.rec.ID != id {
		return nil, common.ErrNotFound
	}
	return s.rec, nil
}

func TestService_Export(t *testing.T) {
	rec := sampleItinerary()
	svc := NewService(stubRepo{rec: rec}, PDFOptions{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, name, err := svc.Export(context.Background(), rec.ID, FormatXLSX)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "itinerary-2026-02-12-"+rec.ID.String()[:8]+".xlsx", name)

	_, _, err = svc.Export(context.Background(), uuid.New(), FormatPDF)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

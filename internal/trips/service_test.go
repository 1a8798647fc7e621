package trips

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
)

const doc = `【基本資訊】
客戶：林小姐
日期：2026/3/1 ~ 3/2

【行程】
3/1
Day 1｜抵達
・接機
住宿：Hotel B
3/2
Day 2｜返程
・送機

【報價】
3/1 接機 1800
小計: 1800`

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repository.Open(ctx, repository.Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "trips.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, logger) })
	require.NoError(t, repository.Migrate(ctx, db, logger))

	return NewService(repository.NewItineraryRepository(db, logger), repository.NewQuotationRepository(db, logger), 0, logger)
}

func TestService_SaveAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, SaveRequest{Text: doc, SourcePath: "/trips/lin-march.txt"})
	require.NoError(t, err)
	assert.Equal(t, "lin-march", saved.Title)
	assert.Equal(t, "林小姐", saved.ClientName)
	assert.Equal(t, 2026, saved.Year)
	assert.Equal(t, 2, saved.DayCount())
	require.NotNil(t, saved.Quotation)
	require.NotNil(t, saved.Quotation.Total)
	assert.Equal(t, 1800.0, *saved.Quotation.Total)

	got, err := svc.Get(ctx, saved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.Days[0].Date)
	require.Len(t, got.Hotels, 1)
	assert.Equal(t, "Hotel B", got.Hotels[0].HotelName)
}

func TestService_SaveTitle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, SaveRequest{Text: doc, Title: "  Spring trip "})
	require.NoError(t, err)
	assert.Equal(t, "Spring trip", saved.Title)

	saved, err = svc.Save(ctx, SaveRequest{Text: "3/1\nDay 1｜Old town\n・Temple", Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, "Old town", saved.Title)
	assert.Equal(t, "2026-03-01", saved.StartDate)
	assert.Equal(t, "2026-03-01", saved.EndDate)
	assert.Nil(t, saved.Quotation)
}

func TestService_SaveRejects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveRequest{Text: "   "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Save(ctx, SaveRequest{Text: doc, Year: 12})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Save(ctx, SaveRequest{Text: "just some notes\nwith no dates"})
	assert.ErrorIs(t, err, common.ErrNoItinerary)
}

func TestService_ListAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, SaveRequest{Text: doc})
	require.NoError(t, err)
	_, err = svc.Save(ctx, SaveRequest{Text: "5/10\nDay 1｜Bangkok\n・Market", Year: 2026})
	require.NoError(t, err)

	all, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2026-05-10", all[0].StartDate)

	byClient, err := svc.List(ctx, ListRequest{ClientName: "林"})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, first.ID, byClient[0].ID)

	_, err = svc.List(ctx, ListRequest{FromDate: "2026/01/01"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, first.ID.String()))
	_, err = svc.Get(ctx, first.ID.String())
	assert.True(t, IsNotFound(err))

	err = svc.Delete(ctx, uuid.NewString())
	assert.True(t, IsNotFound(err))
}

func TestService_BadID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), common.ErrInvalidInput)
}

func TestService_ReplaceQuotation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, SaveRequest{Text: doc})
	require.NoError(t, err)

	q, err := svc.ReplaceQuotation(ctx, saved.ID.String(), "3/2 送機 1800\n包車 3000*2天\n備註：不含門票")
	require.NoError(t, err)
	require.Len(t, q.Items, 2)
	assert.Equal(t, "2026-03-02", q.Items[0].Date)
	assert.Equal(t, 6000.0, q.Items[1].Amount())
	assert.Nil(t, q.Total)
	assert.Equal(t, "不含門票", q.Note)

	stored, err := svc.GetQuotation(ctx, saved.ID.String())
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	_, err = svc.ReplaceQuotation(ctx, uuid.NewString(), "x 100")
	assert.True(t, IsNotFound(err))
}

func TestService_ParseUsesDefaultYear(t *testing.T) {
	svc := NewService(nil, nil, 2030, nil)
	d := svc.Parse("1/5\nDay 1｜Arrive", 0)
	require.True(t, d.Itinerary.Success)
	assert.Equal(t, "2030-01-05", d.Itinerary.Days[0].Date)
	assert.Equal(t, 2030, d.Year)
}

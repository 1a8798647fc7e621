package repository

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
	"github.com/PoYuTsai/TravelAPP-sub000/internal/document"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
)

const sample = `【基本資訊】
客戶：陳先生
日期：2026/2/12 ~ 2/13

【行程】
2/12
Day 1｜抵達清邁
・機場接機
午餐：餐廳A
・09:00 泰服體驗
住宿：Hotel A
2/13
Day 2｜古城
・寺廟
住宿：Hotel A

【報價】
2/12 接機 3200
導遊 2500*2天
小計: 8200`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	logger := testLogger()

	db, err := Open(ctx, Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db, logger) })

	require.NoError(t, Migrate(ctx, db, logger))
	return db
}

func sampleRecord() *entity.Itinerary {
	doc := document.ParseText(sample, 0)
	q := doc.Quotation
	return &entity.Itinerary{
		Title:       "清邁兩日",
		ClientName:  doc.BasicInfo.ClientName,
		StartDate:   doc.BasicInfo.StartDate,
		EndDate:     doc.BasicInfo.EndDate,
		Year:        doc.Year,
		SourcePath:  "/trips/a.txt",
		ContentHash: "abc123",
		RawText:     sample,
		BasicInfo:   doc.BasicInfo,
		Days:        doc.Itinerary.Days,
		Quotation:   &entity.Quotation{Items: q.Items, Total: q.Total, Note: q.Note},
	}
}

func TestItineraryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewItineraryRepository(db, testLogger())

	created, err := repo.Create(ctx, sampleRecord())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.NotNil(t, created.Quotation)
	require.Len(t, created.Hotels, 1)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "陳先生", got.ClientName)
	assert.Equal(t, "2026-02-12", got.StartDate)
	assert.Equal(t, 2026, got.Year)
	assert.Equal(t, "/trips/a.txt", got.SourcePath)
	assert.Equal(t, created.BasicInfo, got.BasicInfo)

	require.Len(t, got.Days, 2)
	assert.Equal(t, created.Days, got.Days)
	assert.Equal(t, "09:00", got.Days[0].Activities[2].Time)

	require.Len(t, got.Hotels, 1)
	assert.Equal(t, "Hotel A", got.Hotels[0].HotelName)
	assert.Equal(t, "2026-02-14", got.Hotels[0].EndDate)

	require.NotNil(t, got.Quotation)
	require.Len(t, got.Quotation.Items, 2)
	assert.Equal(t, quotation.Item{Description: "導遊", UnitPrice: 2500, Quantity: 2, Unit: "天"}, got.Quotation.Items[1])
	require.NotNil(t, got.Quotation.Total)
	assert.Equal(t, 8200.0, *got.Quotation.Total)

	byHash, err := repo.GetByHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHash.ID)
}

func TestItineraryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewItineraryRepository(openTestDB(t), testLogger())

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.GetByHash(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), common.ErrNotFound)
}

func TestItineraryRepository_DuplicateHash(t *testing.T) {
	ctx := context.Background()
	repo := NewItineraryRepository(openTestDB(t), testLogger())

	_, err := repo.Create(ctx, sampleRecord())
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleRecord())
	assert.Error(t, err)
}

func TestItineraryRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewItineraryRepository(db, testLogger())
	quotes := NewQuotationRepository(db, testLogger())

	for i, start := range []string{"2026-01-05", "2026-03-01", "2026-02-10"} {
		rec := &entity.Itinerary{Title: start, StartDate: start, ClientName: []string{"Alice", "Bob", "alice w"}[i], Year: 2026}
		_, err := repo.Create(ctx, rec)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-01", all[0].StartDate)
	assert.Equal(t, "2026-01-05", all[2].StartDate)
	assert.Nil(t, all[0].Days)

	ranged, err := repo.List(ctx, ListFilter{FromDate: "2026-02-01", ToDate: "2026-02-28"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2026-02-10", ranged[0].StartDate)

	limited, err := repo.List(ctx, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "2026-02-10", limited[0].StartDate)

	target := all[0].ID
	_, err = quotes.Replace(ctx, target, quotation.Quotation{Items: []quotation.Item{{Description: "x", UnitPrice: 1, Quantity: 1}}})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, target))
	_, err = repo.Get(ctx, target)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = quotes.GetByItinerary(ctx, target)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestQuotationRepository_Replace(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewItineraryRepository(db, testLogger())
	quotes := NewQuotationRepository(db, testLogger())

	created, err := repo.Create(ctx, sampleRecord())
	require.NoError(t, err)

	next := quotation.Parse("2/13 包車 3,500*2日\n備註：含油資", quotation.WithYear(2026))
	stored, err := quotes.Replace(ctx, created.ID, next)
	require.NoError(t, err)
	assert.Nil(t, stored.Total)

	got, err := quotes.GetByItinerary(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, next.Items, got.Items)
	assert.Equal(t, "含油資", got.Note)
	assert.Nil(t, got.Total)

	_, err = quotes.Replace(ctx, uuid.New(), next)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"}, testLogger())
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, HealthCheck(context.Background(), db, 0, testLogger()))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared", SQLiteDSN("file::memory:?cache=shared"))
	assert.Contains(t, SQLiteDSN("/tmp/x.db"), "foreign_keys(ON)")
}

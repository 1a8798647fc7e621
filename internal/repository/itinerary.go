package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
)

// ListFilter narrows List. Zero values mean "no constraint".
type ListFilter struct {
	FromDate   string
	ToDate     string
	ClientName string
	Limit      int
	Offset     int
}

type ItineraryRepository interface {
	Create(ctx context.Context, rec *entity.Itinerary) (*entity.Itinerary, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Itinerary, error)
	GetByHash(ctx context.Context, hash string) (*entity.Itinerary, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Itinerary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itineraryRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewItineraryRepository(db *DB, logger *slog.Logger) ItineraryRepository {
	return &itineraryRepository{
		db:     db,
		logger: logger,
	}
}

var itineraryColumns = []string{
	"id", "title", "client_name", "start_date", "end_date", "year",
	"source_path", "content_hash", "basic_info", "raw_text", "created_at", "updated_at",
}

var dayColumns = []string{
	"position", "date", "day_number", "title", "morning", "afternoon", "evening",
	"lunch", "dinner", "accommodation", "activities", "raw_text",
}

// Create stores the itinerary, its days and, when present, its quotation in
// one transaction. ID and timestamps are assigned here.
func (r *itineraryRepository) Create(ctx context.Context, rec *entity.Itinerary) (*entity.Itinerary, error) {
	out := *rec
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	out.CreatedAt, out.UpdatedAt = now, now

	info, err := json.Marshal(out.BasicInfo)
	if err != nil {
		return nil, fmt.Errorf("encode basic info: %w", err)
	}

	d := r.db.Dialect()
	err = withTx(ctx, r.db.Driver, func(tx dialect.Tx) error {
		q, args := entsql.Dialect(d).Insert(tableItineraries).
			Columns(itineraryColumns...).
			Values(out.ID, out.Title, out.ClientName, out.StartDate, out.EndDate, out.Year,
				nullString(out.SourcePath), nullString(out.ContentHash), string(info), out.RawText,
				out.CreatedAt, out.UpdatedAt).
			Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("insert itinerary: %w", err)
		}

		for i, day := range out.Days {
			acts, err := json.Marshal(day.Activities)
			if err != nil {
				return fmt.Errorf("encode activities of day %d: %w", i+1, err)
			}
			q, args := entsql.Dialect(d).Insert(tableItineraryDays).
				Columns(append([]string{"itinerary_id"}, dayColumns...)...).
				Values(out.ID, i, day.Date, day.DayNumber, day.Title, day.Morning, day.Afternoon, day.Evening,
					day.Lunch, day.Dinner, day.Accommodation, string(acts), day.RawText).
				Query()
			if err := tx.Exec(ctx, q, args, nil); err != nil {
				return fmt.Errorf("insert day %d: %w", i+1, err)
			}
		}

		if out.Quotation != nil {
			qrec, err := insertQuotation(ctx, tx, d, out.ID, out.Quotation.Model(), now)
			if err != nil {
				return err
			}
			out.Quotation = qrec
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to create itinerary", "title", out.Title, "source_path", out.SourcePath, "error", err)
		return nil, err
	}
	out.Hotels = itinerary.ConsolidateHotels(out.Days)
	return &out, nil
}

func (r *itineraryRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Itinerary, error) {
	rec, err := r.getOne(ctx, entsql.EQ("id", id))
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			r.logger.Error("failed to get itinerary", "id", id, "error", err)
		}
		return nil, err
	}
	return rec, nil
}

func (r *itineraryRepository) GetByHash(ctx context.Context, hash string) (*entity.Itinerary, error) {
	return r.getOne(ctx, entsql.EQ("content_hash", hash))
}

func (r *itineraryRepository) getOne(ctx context.Context, where *entsql.Predicate) (*entity.Itinerary, error) {
	recs, err := r.selectItineraries(ctx, where, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("itinerary: %w", common.ErrNotFound)
	}
	rec := recs[0]

	if rec.Days, err = r.loadDays(ctx, rec.ID); err != nil {
		return nil, err
	}
	rec.Hotels = itinerary.ConsolidateHotels(rec.Days)

	qrec, err := loadQuotation(ctx, r.db, rec.ID)
	switch {
	case err == nil:
		rec.Quotation = qrec
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}
	return rec, nil
}

// List returns itineraries ordered by start date, newest first, without
// their days.
func (r *itineraryRepository) List(ctx context.Context, filter ListFilter) ([]*entity.Itinerary, error) {
	var preds []*entsql.Predicate
	if filter.FromDate != "" {
		preds = append(preds, entsql.GTE("start_date", filter.FromDate))
	}
	if filter.ToDate != "" {
		preds = append(preds, entsql.LTE("start_date", filter.ToDate))
	}
	if filter.ClientName != "" {
		preds = append(preds, entsql.ContainsFold("client_name", filter.ClientName))
	}
	var where *entsql.Predicate
	if len(preds) > 0 {
		where = entsql.And(preds...)
	}
	recs, err := r.selectItineraries(ctx, where, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("failed to list itineraries", "error", err)
		return nil, err
	}
	return recs, nil
}

func (r *itineraryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q, args := entsql.Dialect(r.db.Dialect()).Delete(tableItineraries).Where(entsql.EQ("id", id)).Query()
	var res sql.Result
	if err := r.db.Driver.Exec(ctx, q, args, &res); err != nil {
		r.logger.Error("failed to delete itinerary", "id", id, "error", err)
		return fmt.Errorf("delete itinerary: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("itinerary %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *itineraryRepository) selectItineraries(ctx context.Context, where *entsql.Predicate, limit, offset int) ([]*entity.Itinerary, error) {
	sel := entsql.Dialect(r.db.Dialect()).
		Select(itineraryColumns...).
		From(entsql.Table(tableItineraries)).
		OrderBy(entsql.Desc("start_date"), entsql.Desc("created_at"))
	if where != nil {
		sel = sel.Where(where)
	}
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	if offset > 0 {
		sel = sel.Offset(offset)
	}
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query itineraries: %w", err)
	}
	defer rows.Close()

	var out []*entity.Itinerary
	for rows.Next() {
		var (
			rec        entity.Itinerary
			sourcePath sql.NullString
			hash       sql.NullString
			info       []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.ClientName, &rec.StartDate, &rec.EndDate, &rec.Year,
			&sourcePath, &hash, &info, &rec.RawText, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan itinerary: %w", err)
		}
		rec.SourcePath = sourcePath.String
		rec.ContentHash = hash.String
		if len(info) > 0 {
			if err := json.Unmarshal(info, &rec.BasicInfo); err != nil {
				return nil, fmt.Errorf("decode basic info: %w", err)
			}
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate itineraries: %w", err)
	}
	return out, nil
}

func (r *itineraryRepository) loadDays(ctx context.Context, id uuid.UUID) ([]itinerary.Day, error) {
	q, args := entsql.Dialect(r.db.Dialect()).
		Select(dayColumns...).
		From(entsql.Table(tableItineraryDays)).
		Where(entsql.EQ("itinerary_id", id)).
		OrderBy(entsql.Asc("position")).
		Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	days := []itinerary.Day{}
	for rows.Next() {
		var (
			d    itinerary.Day
			pos  int
			acts []byte
		)
		if err := rows.Scan(&pos, &d.Date, &d.DayNumber, &d.Title, &d.Morning, &d.Afternoon, &d.Evening,
			&d.Lunch, &d.Dinner, &d.Accommodation, &acts, &d.RawText); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		if len(acts) > 0 {
			if err := json.Unmarshal(acts, &d.Activities); err != nil {
				return nil, fmt.Errorf("decode activities: %w", err)
			}
		}
		if d.Activities == nil {
			d.Activities = []itinerary.Activity{}
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	return days, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

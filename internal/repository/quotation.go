package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
)

type QuotationRepository interface {
	GetByItinerary(ctx context.Context, itineraryID uuid.UUID) (*entity.Quotation, error)
	Replace(ctx context.Context, itineraryID uuid.UUID, q quotation.Quotation) (*entity.Quotation, error)
}

type quotationRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewQuotationRepository(db *DB, logger *slog.Logger) QuotationRepository {
	return &quotationRepository{
		db:     db,
		logger: logger,
	}
}

var itemColumns = []string{"position", "date", "description", "unit_price", "quantity", "unit"}

func (r *quotationRepository) GetByItinerary(ctx context.Context, itineraryID uuid.UUID) (*entity.Quotation, error) {
	rec, err := loadQuotation(ctx, r.db, itineraryID)
	if err != nil {
		r.logger.Debug("quotation lookup failed", "itinerary_id", itineraryID, "error", err)
		return nil, err
	}
	return rec, nil
}

// Replace drops any stored quotation of the itinerary and stores q instead.
func (r *quotationRepository) Replace(ctx context.Context, itineraryID uuid.UUID, q quotation.Quotation) (*entity.Quotation, error) {
	d := r.db.Dialect()
	var out *entity.Quotation
	err := withTx(ctx, r.db.Driver, func(tx dialect.Tx) error {
		var rows entsql.Rows
		sq, sargs := entsql.Dialect(d).Select("id").From(entsql.Table(tableItineraries)).
			Where(entsql.EQ("id", itineraryID)).Query()
		if err := tx.Query(ctx, sq, sargs, &rows); err != nil {
			return fmt.Errorf("lookup itinerary: %w", err)
		}
		found := rows.Next()
		if err := rows.Close(); err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("itinerary %s: %w", itineraryID, common.ErrNotFound)
		}

		dq, dargs := entsql.Dialect(d).Delete(tableQuotations).Where(entsql.EQ("itinerary_id", itineraryID)).Query()
		if err := tx.Exec(ctx, dq, dargs, nil); err != nil {
			return fmt.Errorf("delete quotation: %w", err)
		}
		rec, err := insertQuotation(ctx, tx, d, itineraryID, q, time.Now().UTC().Truncate(time.Microsecond))
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		r.logger.Error("failed to replace quotation", "itinerary_id", itineraryID, "error", err)
		return nil, err
	}
	return out, nil
}

func insertQuotation(ctx context.Context, tx dialect.ExecQuerier, d string, itineraryID uuid.UUID, q quotation.Quotation, now time.Time) (*entity.Quotation, error) {
	rec := &entity.Quotation{
		ID:          uuid.New(),
		ItineraryID: itineraryID,
		Items:       q.Items,
		Total:       q.Total,
		Note:        q.Note,
		CreatedAt:   now,
	}
	if rec.Items == nil {
		rec.Items = []quotation.Item{}
	}

	var total any
	if q.Total != nil {
		total = *q.Total
	}
	iq, iargs := entsql.Dialect(d).Insert(tableQuotations).
		Columns("id", "itinerary_id", "total", "note", "created_at").
		Values(rec.ID, itineraryID, total, rec.Note, rec.CreatedAt).
		Query()
	if err := tx.Exec(ctx, iq, iargs, nil); err != nil {
		return nil, fmt.Errorf("insert quotation: %w", err)
	}

	for i, it := range rec.Items {
		sq, args := entsql.Dialect(d).Insert(tableQuotationItems).
			Columns(append([]string{"quotation_id"}, itemColumns...)...).
			Values(rec.ID, i, it.Date, it.Description, it.UnitPrice, it.Quantity, it.Unit).
			Query()
		if err := tx.Exec(ctx, sq, args, nil); err != nil {
			return nil, fmt.Errorf("insert quotation item %d: %w", i+1, err)
		}
	}
	return rec, nil
}

func loadQuotation(ctx context.Context, db *DB, itineraryID uuid.UUID) (*entity.Quotation, error) {
	d := db.Dialect()
	q, args := entsql.Dialect(d).
		Select("id", "itinerary_id", "total", "note", "created_at").
		From(entsql.Table(tableQuotations)).
		Where(entsql.EQ("itinerary_id", itineraryID)).
		Query()

	var rows entsql.Rows
	if err := db.Driver.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query quotation: %w", err)
	}
	var (
		rec   entity.Quotation
		total sql.NullFloat64
		found bool
	)
	if rows.Next() {
		found = true
		if err := rows.Scan(&rec.ID, &rec.ItineraryID, &total, &rec.Note, &rec.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("quotation: %w", common.ErrNotFound)
	}
	if total.Valid {
		v := total.Float64
		rec.Total = &v
	}

	iq, iargs := entsql.Dialect(d).
		Select(itemColumns...).
		From(entsql.Table(tableQuotationItems)).
		Where(entsql.EQ("quotation_id", rec.ID)).
		OrderBy(entsql.Asc("position")).
		Query()
	var items entsql.Rows
	if err := db.Driver.Query(ctx, iq, iargs, &items); err != nil {
		return nil, fmt.Errorf("query quotation items: %w", err)
	}
	defer items.Close()

	rec.Items = []quotation.Item{}
	for items.Next() {
		var (
			it  quotation.Item
			pos int
		)
		if err := items.Scan(&pos, &it.Date, &it.Description, &it.UnitPrice, &it.Quantity, &it.Unit); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		rec.Items = append(rec.Items, it)
	}
	if err := items.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotation items: %w", err)
	}
	return &rec, nil
}

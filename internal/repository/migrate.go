package repository

import (
	"context"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names used by the repositories.
const (
	tableItineraries    = "itineraries"
	tableItineraryDays  = "itinerary_days"
	tableQuotations     = "quotations"
	tableQuotationItems = "quotation_items"
)

var money = map[string]string{dialect.Postgres: "numeric(12,2)"}

var (
	// ItinerariesColumns holds the columns for the "itineraries" table.
	ItinerariesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "client_name", Type: field.TypeString, Default: ""},
		{Name: "start_date", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "end_date", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "year", Type: field.TypeInt},
		{Name: "source_path", Type: field.TypeString, Nullable: true},
		{Name: "content_hash", Type: field.TypeString, Size: 64, Unique: true, Nullable: true},
		{Name: "basic_info", Type: field.TypeJSON},
		{Name: "raw_text", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ItinerariesTable holds the schema information for the "itineraries" table.
	ItinerariesTable = &schema.Table{
		Name:       tableItineraries,
		Columns:    ItinerariesColumns,
		PrimaryKey: []*schema.Column{ItinerariesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "itinerary_start_date", Columns: []*schema.Column{ItinerariesColumns[3]}},
		},
	}

	// ItineraryDaysColumns holds the columns for the "itinerary_days" table.
	ItineraryDaysColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "itinerary_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "date", Type: field.TypeString, Size: 10},
		{Name: "day_number", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "morning", Type: field.TypeString, Default: ""},
		{Name: "afternoon", Type: field.TypeString, Default: ""},
		{Name: "evening", Type: field.TypeString, Default: ""},
		{Name: "lunch", Type: field.TypeString, Default: ""},
		{Name: "dinner", Type: field.TypeString, Default: ""},
		{Name: "accommodation", Type: field.TypeString, Default: ""},
		{Name: "activities", Type: field.TypeJSON},
		{Name: "raw_text", Type: field.TypeString, Default: ""},
	}
	// ItineraryDaysTable holds the schema information for the "itinerary_days" table.
	ItineraryDaysTable = &schema.Table{
		Name:       tableItineraryDays,
		Columns:    ItineraryDaysColumns,
		PrimaryKey: []*schema.Column{ItineraryDaysColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "itinerary_days_itineraries_days",
				Columns:    []*schema.Column{ItineraryDaysColumns[1]},
				RefColumns: []*schema.Column{ItinerariesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "itineraryday_itinerary_id_position", Unique: true, Columns: []*schema.Column{ItineraryDaysColumns[1], ItineraryDaysColumns[2]}},
		},
	}

	// QuotationsColumns holds the columns for the "quotations" table.
	QuotationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "itinerary_id", Type: field.TypeUUID, Unique: true},
		{Name: "total", Type: field.TypeFloat64, Nullable: true, SchemaType: money},
		{Name: "note", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuotationsTable holds the schema information for the "quotations" table.
	QuotationsTable = &schema.Table{
		Name:       tableQuotations,
		Columns:    QuotationsColumns,
		PrimaryKey: []*schema.Column{QuotationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quotations_itineraries_quotation",
				Columns:    []*schema.Column{QuotationsColumns[1]},
				RefColumns: []*schema.Column{ItinerariesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuotationItemsColumns holds the columns for the "quotation_items" table.
	QuotationItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "quotation_id", Type: field.TypeUUID},
		{Name: "position", Type: field.TypeInt},
		{Name: "date", Type: field.TypeString, Size: 10, Default: ""},
		{Name: "description", Type: field.TypeString},
		{Name: "unit_price", Type: field.TypeFloat64, SchemaType: money},
		{Name: "quantity", Type: field.TypeInt},
		{Name: "unit", Type: field.TypeString, Default: ""},
	}
	// QuotationItemsTable holds the schema information for the "quotation_items" table.
	QuotationItemsTable = &schema.Table{
		Name:       tableQuotationItems,
		Columns:    QuotationItemsColumns,
		PrimaryKey: []*schema.Column{QuotationItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quotation_items_quotations_items",
				Columns:    []*schema.Column{QuotationItemsColumns[1]},
				RefColumns: []*schema.Column{QuotationsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "quotationitem_quotation_id_position", Unique: true, Columns: []*schema.Column{QuotationItemsColumns[1], QuotationItemsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ItinerariesTable,
		ItineraryDaysTable,
		QuotationsTable,
		QuotationItemsTable,
	}
)

func init() {
	ItineraryDaysTable.ForeignKeys[0].RefTable = ItinerariesTable
	QuotationsTable.ForeignKeys[0].RefTable = ItinerariesTable
	QuotationItemsTable.ForeignKeys[0].RefTable = QuotationsTable
}

// Migrate creates or updates the tables. Columns are never dropped.
func Migrate(ctx context.Context, db *DB, logger *slog.Logger) error {
	m, err := schema.NewMigrate(db.Driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		logger.Error("schema migration failed", "error", err)
		return fmt.Errorf("create schema: %w", err)
	}
	logger.Info("schema migrated", "tables", len(Tables))
	return nil
}

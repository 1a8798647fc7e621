package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
)

// Sheet names of the workbook.
const (
	SheetItinerary = "Itinerary"
	SheetHotels    = "Hotels"
	SheetQuotation = "Quotation"
)

// fill colours for HotelBooking.Color tags
var hotelFills = map[string]string{
	"blue":   "#DBEAFE",
	"green":  "#DCFCE7",
	"orange": "#FFEDD5",
	"purple": "#EDE9FE",
	"pink":   "#FCE7F3",
	"teal":   "#CCFBF1",
}

// BuildXLSX renders the itinerary as a workbook with one sheet each for days,
// hotel stays and the quotation.
func BuildXLSX(rec *entity.Itinerary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetItinerary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetHotels, SheetQuotation} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E5E7EB"}},
	})
	if err != nil {
		return nil, err
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}

	if err := writeDays(f, rec.Days, header, wrap); err != nil {
		return nil, fmt.Errorf("itinerary sheet: %w", err)
	}
	hotels := rec.Hotels
	if hotels == nil {
		hotels = itinerary.ConsolidateHotels(rec.Days)
	}
	if err := writeHotels(f, hotels, header); err != nil {
		return nil, fmt.Errorf("hotels sheet: %w", err)
	}
	if err := writeQuotation(f, rec.Quotation, header); err != nil {
		return nil, fmt.Errorf("quotation sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeDays(f *excelize.File, days []itinerary.Day, header, wrap int) error {
	headers := []string{"Date", "Weekday", "Day", "Title", "Morning", "Lunch", "Afternoon", "Dinner", "Evening", "Accommodation"}
	if err := writeHeader(f, SheetItinerary, headers, header); err != nil {
		return err
	}
	for i, d := range days {
		weekday := ""
		if t, err := time.Parse(itinerary.DateLayout, d.Date); err == nil {
			weekday = t.Weekday().String()[:3]
		}
		row := []any{d.Date, weekday, d.DayNumber, d.Title, d.Morning, d.Lunch, d.Afternoon, d.Dinner, d.Evening, d.Accommodation}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetItinerary, cell, &row); err != nil {
			return err
		}
	}
	if len(days) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), len(days)+1)
		if err := f.SetCellStyle(SheetItinerary, "A2", last, wrap); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetItinerary, "A", "C", 12)
	_ = f.SetColWidth(SheetItinerary, "D", "D", 24)
	_ = f.SetColWidth(SheetItinerary, "E", "I", 30)
	_ = f.SetColWidth(SheetItinerary, "J", "J", 24)
	return nil
}

func writeHotels(f *excelize.File, hotels []itinerary.HotelBooking, header int) error {
	headers := []string{"Hotel", "Check-in", "Check-out", "Nights", "Guests"}
	if err := writeHeader(f, SheetHotels, headers, header); err != nil {
		return err
	}
	styles := map[string]int{}
	for i, h := range hotels {
		r := i + 2
		row := []any{h.HotelName, h.StartDate, h.EndDate, nights(h), h.Guests}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(SheetHotels, cell, &row); err != nil {
			return err
		}
		color, ok := hotelFills[h.Color]
		if !ok {
			continue
		}
		id, ok := styles[color]
		if !ok {
			var err error
			id, err = f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}})
			if err != nil {
				return err
			}
			styles[color] = id
		}
		last, _ := excelize.CoordinatesToCellName(len(headers), r)
		if err := f.SetCellStyle(SheetHotels, cell, last, id); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetHotels, "A", "A", 32)
	_ = f.SetColWidth(SheetHotels, "B", "C", 12)
	return nil
}

func nights(h itinerary.HotelBooking) int {
	start, err1 := time.Parse(itinerary.DateLayout, h.StartDate)
	end, err2 := time.Parse(itinerary.DateLayout, h.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

func writeQuotation(f *excelize.File, q *entity.Quotation, header int) error {
	headers := []string{"Date", "Description", "Unit Price", "Quantity", "Unit", "Amount"}
	if err := writeHeader(f, SheetQuotation, headers, header); err != nil {
		return err
	}
	if q == nil {
		return nil
	}
	r := 2
	for _, it := range q.Items {
		row := []any{it.Date, it.Description, it.UnitPrice, it.Quantity, it.Unit, it.Amount()}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(SheetQuotation, cell, &row); err != nil {
			return err
		}
		r++
	}
	if q.Total != nil {
		row := []any{"", "Total", "", "", "", *q.Total}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(SheetQuotation, cell, &row); err != nil {
			return err
		}
		r++
	}
	if q.Note != "" {
		row := []any{"", "Note", q.Note}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(SheetQuotation, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetQuotation, "A", "A", 12)
	_ = f.SetColWidth(SheetQuotation, "B", "B", 32)
	_ = f.SetColWidth(SheetQuotation, "C", "F", 12)
	return nil
}

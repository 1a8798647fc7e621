package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/itinerary"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/quotation"
)

// PDFOptions controls PDF rendering.
type PDFOptions struct {
	// FontPath points at a UTF-8 TrueType font. Without one the core Arial
	// font is used and characters outside cp1252 render as dots.
	FontPath string
}

const fontFamily = "itinerary"

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

// BuildPDF renders a day-by-day document followed by hotel stays and the
// quotation.
func BuildPDF(rec *entity.Itinerary, opts PDFOptions) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w := &pdfWriter{pdf: pdf, family: "Arial", tr: pdf.UnicodeTranslatorFromDescriptor("")}

	if opts.FontPath != "" {
		font, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(fontFamily, "", font)
		pdf.AddUTF8FontFromBytes(fontFamily, "B", font)
		w.family = fontFamily
		w.tr = func(s string) string { return s }
	}

	pdf.SetTitle(rec.Title, true)
	pdf.SetCreator("itinerary", true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		w.font("", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	w.heading(rec)
	for _, d := range rec.Days {
		w.day(d)
	}

	hotels := rec.Hotels
	if hotels == nil {
		hotels = itinerary.ConsolidateHotels(rec.Days)
	}
	if len(hotels) > 0 {
		w.hotels(hotels)
	}
	if rec.Quotation != nil && (len(rec.Quotation.Items) > 0 || rec.Quotation.Total != nil) {
		w.quotation(rec.Quotation)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) font(style string, size float64) {
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) heading(rec *entity.Itinerary) {
	w.font("B", 16)
	title := rec.Title
	if title == "" {
		title = "Itinerary"
	}
	w.pdf.CellFormat(0, 10, w.tr(title), "", 1, "L", false, 0, "")

	w.font("", 11)
	var meta []string
	if rec.ClientName != "" {
		meta = append(meta, rec.ClientName)
	}
	if rec.StartDate != "" {
		meta = append(meta, rec.StartDate+" ~ "+rec.EndDate)
	}
	if len(meta) > 0 {
		w.pdf.CellFormat(0, 7, w.tr(strings.Join(meta, "  ")), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(4)
}

func (w *pdfWriter) day(d itinerary.Day) {
	lines := strings.Split(itinerary.FormatDay(d), "\n")
	w.pdf.SetFillColor(229, 231, 235)
	w.font("B", 12)
	w.pdf.CellFormat(0, 8, w.tr(strings.Join(lines[:2], "  ")), "", 1, "L", true, 0, "")
	w.font("", 11)
	for _, l := range lines[2:] {
		w.pdf.MultiCell(0, 6, w.tr(l), "", "L", false)
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) hotels(hotels []itinerary.HotelBooking) {
	w.font("B", 13)
	w.pdf.CellFormat(0, 9, "Hotels", "", 1, "L", false, 0, "")
	w.font("B", 10)
	widths := []float64{80, 30, 30, 20, 30}
	for i, h := range []string{"Hotel", "Check-in", "Check-out", "Nights", "Guests"} {
		w.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)
	w.font("", 10)
	for _, h := range hotels {
		cells := []string{h.HotelName, h.StartDate, h.EndDate, fmt.Sprint(nights(h)), h.Guests}
		for i, c := range cells {
			w.pdf.CellFormat(widths[i], 7, w.tr(c), "1", 0, "L", false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(4)
}

func (w *pdfWriter) quotation(q *entity.Quotation) {
	w.font("B", 13)
	w.pdf.CellFormat(0, 9, "Quotation", "", 1, "L", false, 0, "")
	w.font("B", 10)
	widths := []float64{25, 75, 30, 25, 35}
	for i, h := range []string{"Date", "Description", "Unit Price", "Qty", "Amount"} {
		w.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)
	w.font("", 10)
	for _, it := range q.Items {
		qty := fmt.Sprint(it.Quantity)
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		cells := []string{it.Date, it.Description, quotation.FormatAmount(it.UnitPrice), qty, quotation.FormatAmount(it.Amount())}
		aligns := []string{"L", "L", "R", "R", "R"}
		for i, c := range cells {
			w.pdf.CellFormat(widths[i], 7, w.tr(c), "1", 0, aligns[i], false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	if q.Total != nil {
		w.font("B", 10)
		w.pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "Total", "1", 0, "R", false, 0, "")
		w.pdf.CellFormat(widths[4], 7, quotation.FormatAmount(*q.Total), "1", 1, "R", false, 0, "")
	}
	if q.Note != "" {
		w.font("", 10)
		w.pdf.Ln(2)
		w.pdf.MultiCell(0, 6, w.tr(q.Note), "", "L", false)
	}
}

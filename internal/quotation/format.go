package quotation

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatAmount renders v with thousands separators and no trailing zeros.
func FormatAmount(v float64) string {
	return humanize.Commaf(v)
}

// FormatItem renders one item in the shape Parse reads back.
func FormatItem(it Item) string {
	var b strings.Builder
	if t, err := time.Parse("2006-01-02", it.Date); err == nil {
		b.WriteString(t.Format("1/2"))
		b.WriteByte(' ')
	}
	b.WriteString(it.Description)
	b.WriteByte(' ')
	b.WriteString(FormatAmount(it.UnitPrice))
	if it.Quantity > 1 || it.Unit != "" {
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(it.Quantity))
		b.WriteString(it.Unit)
	}
	return b.String()
}

// Format renders the whole quotation: items, then the total and note lines.
func Format(q Quotation) string {
	lines := make([]string, 0, len(q.Items)+2)
	for _, it := range q.Items {
		lines = append(lines, FormatItem(it))
	}
	if q.Total != nil {
		lines = append(lines, "小計: "+FormatAmount(*q.Total))
	}
	if q.Note != "" {
		lines = append(lines, "備註: "+q.Note)
	}
	return strings.Join(lines, "\n")
}

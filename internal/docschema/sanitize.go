package docschema

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dayKeys = map[string]struct{}{
	"date": {}, "dayNumber": {}, "title": {}, "morning": {}, "afternoon": {}, "evening": {},
	"lunch": {}, "dinner": {}, "accommodation": {}, "activities": {},
}

// synonyms maps alternative day keys onto the schema's names.
var synonyms = map[string]string{
	"day":        "dayNumber",
	"day_number": "dayNumber",
	"hotel":      "accommodation",
	"lodging":    "accommodation",
	"stay":       "accommodation",
	"items":      "activities",
	"schedule":   "activities",
}

var reSlashDate = regexp.MustCompile(`^(\d{4})[/.](\d{1,2})[/.](\d{1,2})$`)

// Normalize
// - wraps a bare array as {"days": [...]}
// - renames known synonyms (hotel -> accommodation)
// - accepts "YYYY/M/D" dates and numeric-string day numbers
// - turns plain-string activities into {"content": ...}
// - drops null/empty strings and unknown keys
//
// It returns the rewritten document and a list of what was changed.
func Normalize(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}
	doc, ok := top.(map[string]any)
	if !ok {
		doc = map[string]any{"days": top}
	}

	var changed []string
	note := func(format string, args ...any) {
		changed = append(changed, fmt.Sprintf(format, args...))
	}

	for k := range maps.Clone(doc) {
		if k != "days" && k != "title" {
			delete(doc, k)
			note("%s(unknown)", k)
		}
	}

	days, _ := doc["days"].([]any)
	for i, d := range days {
		day, ok := d.(map[string]any)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("days[%d].", i)

		for from, to := range synonyms {
			v, ok := day[from]
			if !ok {
				continue
			}
			if _, exists := day[to]; !exists {
				day[to] = v
			}
			delete(day, from)
			note("%s%s->%s", prefix, from, to)
		}

		for k, v := range maps.Clone(day) {
			if _, known := dayKeys[k]; !known {
				delete(day, k)
				note("%s%s(unknown)", prefix, k)
				continue
			}
			switch t := v.(type) {
			case nil:
				delete(day, k)
				note("%s%s(null)", prefix, k)
			case string:
				s := strings.TrimSpace(t)
				if s == "" && k != "date" {
					delete(day, k)
					note("%s%s(empty)", prefix, k)
					continue
				}
				day[k] = s
			}
		}

		if s, ok := day["date"].(string); ok {
			if iso, ok := isoDate(s); ok && iso != s {
				day["date"] = iso
				note("%sdate(reformatted)", prefix)
			}
		}
		if s, ok := day["dayNumber"].(string); ok {
			if n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(s), "day ")); err == nil {
				day["dayNumber"] = n
				note("%sdayNumber(coerced)", prefix)
			}
		}
		if acts, ok := day["activities"].([]any); ok {
			for j, a := range acts {
				if s, ok := a.(string); ok {
					acts[j] = map[string]any{"content": strings.TrimSpace(s)}
					note("%sactivities[%d](wrapped)", prefix, j)
				}
			}
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, changed, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(changed) > 0 {
		logger.Debug("docschema.normalize", "changed", changed)
	}
	return out, changed, nil
}

func isoDate(s string) (string, bool) {
	m := reSlashDate.FindStringSubmatch(s)
	if m == nil {
		return s, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(mo) || t.Day() != d {
		return s, false
	}
	return t.Format("2006-01-02"), true
}

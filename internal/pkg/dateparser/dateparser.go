// Package dateparser reads the two textual date layouts found in attendance
// records: DD/MM/YYYY and YYYY-MM-DD (plus the DD-MM-YYYY variant).
package dateparser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsedDate is a structural date. Month and day are not range checked.
type ParsedDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Parse reads raw and reports whether it matched a known layout.
//
// Dash separated input is year-first when the first field is four characters
// long or greater than 31, day-first otherwise. Slash separated input is always
// day/month/year. Every field must be a positive integer.
func Parse(raw string) (ParsedDate, bool) {
	if raw == "" {
		return ParsedDate{}, false
	}

	if strings.Contains(raw, "-") {
		fields := strings.Split(raw, "-")
		if len(fields) < 3 {
			return ParsedDate{}, false
		}
		first, ok1 := positive(fields[0])
		second, ok2 := positive(fields[1])
		third, ok3 := positive(fields[2])
		if !ok1 || !ok2 || !ok3 {
			return ParsedDate{}, false
		}
		if len(strings.TrimSpace(fields[0])) == 4 || first > 31 {
			return ParsedDate{Year: first, Month: second, Day: third}, true
		}
		return ParsedDate{Year: third, Month: second, Day: first}, true
	}

	if strings.Contains(raw, "/") {
		fields := strings.Split(raw, "/")
		if len(fields) < 3 {
			return ParsedDate{}, false
		}
		day, ok1 := positive(fields[0])
		month, ok2 := positive(fields[1])
		year, ok3 := positive(fields[2])
		if !ok1 || !ok2 || !ok3 {
			return ParsedDate{}, false
		}
		return ParsedDate{Year: year, Month: month, Day: day}, true
	}

	return ParsedDate{}, false
}

func positive(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CompareMonth reports whether d falls in the given calendar month.
// Only the date itself is considered, never an end date.
func CompareMonth(d ParsedDate, year, month int) bool {
	return d.Year == year && d.Month == month
}

// SortableKey renders d as a zero padded YYYY-MM-DD string.
func SortableKey(d ParsedDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// SortableKeyOf returns the sortable key of raw, or "" when raw does not parse.
func SortableKeyOf(raw string) string {
	d, ok := Parse(raw)
	if !ok {
		return ""
	}
	return SortableKey(d)
}

// FormatDisplay renders d as DD/MM/YYYY.
func FormatDisplay(d ParsedDate) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// DisplayOf formats raw for display, falling back to the raw text (or "-").
func DisplayOf(raw string) string {
	d, ok := Parse(raw)
	if !ok {
		if raw == "" {
			return "-"
		}
		return raw
	}
	return FormatDisplay(d)
}

// SortDescending orders items newest first by the sortable key of the date
// returned by dateOf. Items with equal keys keep their input order and
// unparseable dates sort last.
func SortDescending[T any](items []T, dateOf func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return SortableKeyOf(dateOf(items[i])) > SortableKeyOf(dateOf(items[j]))
	})
}

// MaskInput keeps at most eight digits of raw and lays them out as DD/MM/YYYY
// while typing, e.g. "0602" becomes "06/02".
func MaskInput(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' && digits.Len() < 8 {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	switch {
	case len(s) <= 2:
		return s
	case len(s) <= 4:
		return s[:2] + "/" + s[2:]
	default:
		return s[:2] + "/" + s[2:4] + "/" + s[4:]
	}
}

// Package status normalizes free-text attendance labels into canonical categories.
package status

import "strings"

type CanonicalStatus string

const (
	Hadir     CanonicalStatus = "Hadir"
	Terlambat CanonicalStatus = "Terlambat"
	Izin      CanonicalStatus = "Izin"
	Sakit     CanonicalStatus = "Sakit"
	Cuti      CanonicalStatus = "Cuti"
	Alpa      CanonicalStatus = "Alpa"

	// Unknown is only produced by a Classifier with UnknownAsUnknown set.
	Unknown CanonicalStatus = "Unknown"
)

// All lists the six canonical categories in display order.
var All = []CanonicalStatus{Hadir, Terlambat, Izin, Sakit, Cuti, Alpa}

// Classifier maps raw labels to canonical statuses. The zero value keeps the
// historical behaviour of treating unrecognized labels as Hadir.
type Classifier struct {
	UnknownAsUnknown bool
}

// ordered by priority, first match wins
var rules = []struct {
	needle string
	status CanonicalStatus
}{
	{"terlambat", Terlambat},
	{"izin", Izin},
	{"sakit", Sakit},
	{"cuti", Cuti},
	{"alpa", Alpa},
	{"tepat waktu", Hadir},
	{"hadir", Hadir},
}

// Classify maps raw to exactly one canonical status.
func (c Classifier) Classify(raw string) CanonicalStatus {
	lower := strings.ToLower(raw)
	for _, r := range rules {
		if strings.Contains(lower, r.needle) {
			return r.status
		}
	}
	if c.UnknownAsUnknown {
		return Unknown
	}
	return Hadir
}

// Classify uses the default Classifier.
func Classify(raw string) CanonicalStatus {
	return Classifier{}.Classify(raw)
}

// IsPresent reports whether s counts as "present" on summary screens,
// where late arrivals are shown together with on-time ones.
func IsPresent(s CanonicalStatus) bool {
	return s == Hadir || s == Terlambat
}

// ParseFilter reads a history filter value. "Semua" (or empty) matches every
// status and yields ok with an empty status.
func ParseFilter(raw string) (CanonicalStatus, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "semua") {
		return "", true
	}
	for _, s := range All {
		if strings.EqualFold(trimmed, string(s)) {
			return s, true
		}
	}
	return "", false
}

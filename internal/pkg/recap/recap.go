// Package recap reduces attendance records into per-category monthly counts.
package recap

import (
	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
)

// Record is the subset of an attendance record needed for counting.
type Record struct {
	Date   string
	Status string
}

// Counts holds a month's totals. Hadir includes late arrivals; Terlambat is
// the late share of Hadir, so Hadir+Izin+Sakit+Cuti+Alpa+Unknown == Total.
type Counts struct {
	Total     int `json:"total"`
	Hadir     int `json:"hadir"`
	Terlambat int `json:"terlambat"`
	Izin      int `json:"izin"`
	Sakit     int `json:"sakit"`
	Cuti      int `json:"cuti"`
	Alpa      int `json:"alpa"`
	Unknown   int `json:"unknown,omitempty"`
}

// Aggregator counts records using its Classifier.
type Aggregator struct {
	Classifier status.Classifier
}

// Aggregate counts records dated in year/month. Records with an unparseable
// date are skipped. A multi-day record is counted once, in the month it starts.
func (a Aggregator) Aggregate(records []Record, year, month int) Counts {
	var c Counts
	for _, r := range records {
		d, ok := dateparser.Parse(r.Date)
		if !ok || !dateparser.CompareMonth(d, year, month) {
			continue
		}
		c.Total++
		s := a.Classifier.Classify(r.Status)
		if status.IsPresent(s) {
			c.Hadir++
		}
		switch s {
		case status.Terlambat:
			c.Terlambat++
		case status.Hadir:
			// counted above
		case status.Izin:
			c.Izin++
		case status.Sakit:
			c.Sakit++
		case status.Cuti:
			c.Cuti++
		case status.Alpa:
			c.Alpa++
		default:
			c.Unknown++
		}
	}
	return c
}

// Aggregate uses the default classifier.
func Aggregate(records []Record, year, month int) Counts {
	return Aggregator{}.Aggregate(records, year, month)
}

package attendance

import (
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/worksession"
)

const (
	SourceAbsensi   = "absensi"
	SourcePengajuan = "pengajuan"

	StatusOnTime = "Tepat Waktu"
	StatusLate   = "Terlambat"

	// NoTime marks check-in and check-out of records created from a leave submission.
	NoTime = "-"

	AutoClosedNote = "auto-closed"
)

// Attendance is one stored attendance record. Date keeps whatever layout it
// was written with; new rows use YYYY-MM-DD.
type Attendance struct {
	ID        string
	UserID    string
	Email     string
	Date      string
	EndDate   *string
	CheckIn   *string
	CheckOut  *string
	Status    string
	Category  *string
	Note      *string
	Location  *string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Attendance) State() worksession.State {
	return worksession.StateOf(a.CheckIn, a.CheckOut)
}

func (a Attendance) RecapRecord() recap.Record {
	return recap.Record{Date: a.Date, Status: a.Status}
}

// DayKey is the sortable key of the record's date, "" when unparseable.
func (a Attendance) DayKey() string {
	return dateparser.SortableKeyOf(a.Date)
}

// FindDay returns the record for the day with the given sortable key that
// carries a check-in, preferring ordinary check-in records over leave ones.
func FindDay(records []Attendance, dayKey string) (Attendance, bool) {
	var found *Attendance
	for i := range records {
		r := records[i]
		if r.DayKey() != dayKey || r.CheckIn == nil || *r.CheckIn == "" {
			continue
		}
		if found == nil || (found.Source != SourceAbsensi && r.Source == SourceAbsensi) {
			found = &records[i]
		}
	}
	if found == nil {
		return Attendance{}, false
	}
	return *found, true
}

func RecapRecords(records []Attendance) []recap.Record {
	out := make([]recap.Record, len(records))
	for i, r := range records {
		out[i] = r.RecapRecord()
	}
	return out
}

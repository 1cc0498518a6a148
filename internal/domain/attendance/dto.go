package attendance

import (
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/worksession"
)

type CheckInRequest struct {
	Location string `json:"location"`
}

func (r *CheckInRequest) Validate() error {
	if len(r.Location) > 255 {
		return validator.ValidationErrors{{Field: "location", Message: "location must not exceed 255 characters"}}
	}
	return nil
}

// PeriodQuery selects a calendar month. Zero values mean the current month.
type PeriodQuery struct {
	Year  int
	Month int
}

func (q *PeriodQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Year != 0 && (q.Year < 1970 || q.Year > 9999) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1970 and 9999"})
	}
	if q.Month != 0 && (q.Month < 1 || q.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve fills zero fields from now.
func (q PeriodQuery) Resolve(now time.Time) (int, int) {
	year, month := q.Year, q.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}

type HistoryQuery struct {
	PeriodQuery
	Status string
}

func (q *HistoryQuery) Validate() error {
	if err := q.PeriodQuery.Validate(); err != nil {
		return err
	}
	if _, ok := status.ParseFilter(q.Status); !ok {
		return validator.ValidationErrors{{Field: "status", Message: "status must be Semua, Hadir, Terlambat, Izin, Sakit, Cuti or Alpa"}}
	}
	return nil
}

type AttendanceResponse struct {
	ID          string                 `json:"id"`
	Date        string                 `json:"date"`
	DisplayDate string                 `json:"display_date"`
	EndDate     *string                `json:"end_date,omitempty"`
	CheckIn     *string                `json:"check_in"`
	CheckOut    *string                `json:"check_out"`
	Status      string                 `json:"status"`
	Canonical   status.CanonicalStatus `json:"canonical_status"`
	Category    *string                `json:"category,omitempty"`
	Note        *string                `json:"note,omitempty"`
	Location    *string                `json:"location,omitempty"`
	Source      string                 `json:"source"`
}

func NewAttendanceResponse(a Attendance, c status.Classifier) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		Date:        a.Date,
		DisplayDate: dateparser.DisplayOf(a.Date),
		EndDate:     a.EndDate,
		CheckIn:     a.CheckIn,
		CheckOut:    a.CheckOut,
		Status:      a.Status,
		Canonical:   c.Classify(a.Status),
		Category:    a.Category,
		Note:        a.Note,
		Location:    a.Location,
		Source:      a.Source,
	}
}

type TodayResponse struct {
	Date        string                  `json:"date"`
	State       worksession.State       `json:"state"`
	Label       string                  `json:"label"`
	Record      *AttendanceResponse     `json:"record"`
	Session     worksession.WorkSession `json:"session"`
	Remaining   string                  `json:"remaining"`
	CanCheckIn  bool                    `json:"can_check_in"`
	CanCheckOut bool                    `json:"can_check_out"`
	Message     string                  `json:"message"`
	Monthly     recap.Counts            `json:"monthly"`
}

type HistoryResponse struct {
	Year   int                  `json:"year"`
	Month  int                  `json:"month"`
	Status string               `json:"status"`
	Counts recap.Counts         `json:"counts"`
	Items  []AttendanceResponse `json:"items"`
}

type RecapResponse struct {
	Year   int          `json:"year"`
	Month  int          `json:"month"`
	Counts recap.Counts `json:"counts"`
}

package schedule

import (
	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
)

// ListQuery optionally narrows the schedule to one month.
type ListQuery struct {
	Year  int
	Month int
}

func (q *ListQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Month != 0 && (q.Month < 1 || q.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if q.Month != 0 && q.Year == 0 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is required when month is set"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScheduleResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
	ClockIn     string `json:"clock_in"`
	ClockOut    string `json:"clock_out"`
	IsDayOff    bool   `json:"is_day_off"`
	Label       string `json:"label"`
}

func NewScheduleResponse(s Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		Date:        s.Date,
		DisplayDate: dateparser.DisplayOf(s.Date),
		ClockIn:     s.ClockIn,
		ClockOut:    s.ClockOut,
		IsDayOff:    s.IsDayOff,
		Label:       s.Label(),
	}
}

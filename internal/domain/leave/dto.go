package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
)

type SubmitRequest struct {
	Type      Type   `json:"-"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`

	start dateparser.ParsedDate
	end   dateparser.ParsedDate
}

func parseInputDate(raw string) (dateparser.ParsedDate, bool) {
	if d, ok := dateparser.Parse(raw); ok {
		return d, true
	}
	// digits typed without separators, as the mobile input mask produces
	return dateparser.Parse(dateparser.MaskInput(raw))
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Category = strings.TrimSpace(r.Category)
	r.Reason = strings.TrimSpace(r.Reason)

	if r.Type.RequiresCategory() && r.Category == "" {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "category is required"})
	}
	if r.Reason == "" {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 1000 characters"})
	}

	var ok bool
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	} else if r.start, ok = parseInputDate(r.StartDate); !ok || !validCalendarDate(r.start) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be a date in DD/MM/YYYY format"})
	}

	if validator.IsEmpty(r.EndDate) {
		r.end = r.start
	} else if r.end, ok = parseInputDate(r.EndDate); !ok || !validCalendarDate(r.end) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be a date in DD/MM/YYYY format"})
	}

	if len(errs) > 0 {
		return errs
	}
	if dateparser.SortableKey(r.end) < dateparser.SortableKey(r.start) {
		return ErrInvalidDateRange
	}
	return nil
}

// validCalendarDate rejects dates like 31/02 that the parser accepts structurally.
func validCalendarDate(d dateparser.ParsedDate) bool {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}

// StartKey and EndKey are the normalized YYYY-MM-DD dates. Valid after Validate.
func (r *SubmitRequest) StartKey() string { return dateparser.SortableKey(r.start) }
func (r *SubmitRequest) EndKey() string   { return dateparser.SortableKey(r.end) }

type SubmissionResponse struct {
	ID               string    `json:"id"`
	Type             Type      `json:"type"`
	Category         string    `json:"category"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	DisplayStartDate string    `json:"display_start_date"`
	DisplayEndDate   string    `json:"display_end_date"`
	Reason           string    `json:"reason"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewSubmissionResponse(s Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:               s.ID,
		Type:             s.Type,
		Category:         s.Category,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		DisplayStartDate: dateparser.DisplayOf(s.StartDate),
		DisplayEndDate:   dateparser.DisplayOf(s.EndDate),
		Reason:           s.Reason,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
	}
}

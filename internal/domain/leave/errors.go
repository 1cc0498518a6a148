package leave

import "errors"

var (
	ErrInvalidLeaveType = errors.New("leave type must be cuti, sakit or izin")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)

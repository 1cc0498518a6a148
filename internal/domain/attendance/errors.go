package attendance

import "errors"

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrAlreadyCheckedIn    = errors.New("Anda sudah check-in hari ini")
	ErrNotCheckedIn        = errors.New("Anda belum check-in hari ini")
	ErrAttendanceCompleted = errors.New("Anda sudah menyelesaikan absensi hari ini")
)

package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrWrongCurrentPassword):
		BadRequest(w, err.Error(), map[string]string{"current_password": err.Error()})
	case errors.Is(err, auth.ErrPasswordUnchanged):
		BadRequest(w, err.Error(), map[string]string{"new_password": err.Error()})

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidPhotoType), errors.Is(err, user.ErrPhotoTooLarge), errors.Is(err, user.ErrPhotoDimensions):
		BadRequest(w, err.Error(), map[string]string{"photo": err.Error()})

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAttendanceCompleted):
		Conflict(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrInvalidLeaveType):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), map[string]string{"end_date": err.Error()})

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

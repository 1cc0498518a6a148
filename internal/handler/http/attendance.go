package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Recap(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// decodeCheckIn accepts an empty body.
func decodeCheckIn(r *http.Request) (attendance.CheckInRequest, error) {
	var req attendance.CheckInRequest
	if r.Body == nil {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckIn(r)
	if err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Check-in berhasil", resp)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.CheckOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Check-out berhasil", resp)
}

// Toggle implements AttendanceHandler.
func (h *attendanceHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckIn(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.Toggle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	message := "Check-in berhasil"
	if resp.CheckOut != nil {
		message = "Check-out berhasil"
	}
	response.SuccessWithMessage(w, message, resp)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	q := attendance.HistoryQuery{Status: r.URL.Query().Get("status")}
	if err := queryInts(r, map[string]*int{"year": &q.Year, "month": &q.Month}); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.History(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Recap implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recap(w http.ResponseWriter, r *http.Request) {
	var q attendance.PeriodQuery
	if err := queryInts(r, map[string]*int{"year": &q.Year, "month": &q.Month}); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.MonthlyRecap(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

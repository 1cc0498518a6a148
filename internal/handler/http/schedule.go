package http

import (
	"net/http"

	"github.com/cmlabs-hris/absensi-go/internal/domain/schedule"
	"github.com/cmlabs-hris/absensi-go/internal/handler/http/response"
)

type ScheduleHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{scheduleService: scheduleService}
}

// ListMine implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	var q schedule.ListQuery
	if err := queryInts(r, map[string]*int{"year": &q.Year, "month": &q.Month}); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.scheduleService.ListMine(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

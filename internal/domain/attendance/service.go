package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context) (AttendanceResponse, error)
	// Toggle performs whichever action is next for today.
	Toggle(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	Today(ctx context.Context) (TodayResponse, error)
	TodayFor(ctx context.Context, userID string, now time.Time) (TodayResponse, error)
	History(ctx context.Context, q HistoryQuery) (HistoryResponse, error)
	MonthlyRecap(ctx context.Context, q PeriodQuery) (RecapResponse, error)
	CloseStaleSessions(ctx context.Context) (int, error)
}

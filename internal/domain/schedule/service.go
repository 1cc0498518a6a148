package schedule

import "context"

type ScheduleService interface {
	ListMine(ctx context.Context, q ListQuery) ([]ScheduleResponse, error)
}

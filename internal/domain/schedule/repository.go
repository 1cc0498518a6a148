package schedule

import "context"

type ScheduleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Schedule, error)
}

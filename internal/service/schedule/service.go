package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/absensi-go/internal/domain/schedule"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
)

type ScheduleServiceImpl struct {
	schedule.ScheduleRepository
}

func NewScheduleService(scheduleRepository schedule.ScheduleRepository) schedule.ScheduleService {
	return &ScheduleServiceImpl{ScheduleRepository: scheduleRepository}
}

// ListMine implements schedule.ScheduleService. Entries come back in calendar
// order; entries whose date cannot be read are dropped.
func (s *ScheduleServiceImpl) ListMine(ctx context.Context, q schedule.ListQuery) ([]schedule.ScheduleResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	list, err := s.ScheduleRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		key string
		s   schedule.Schedule
	}
	var rows []keyed
	for _, item := range list {
		d, ok := dateparser.Parse(item.Date)
		if !ok {
			continue
		}
		if q.Year != 0 && d.Year != q.Year {
			continue
		}
		if q.Month != 0 && !dateparser.CompareMonth(d, q.Year, q.Month) {
			continue
		}
		rows = append(rows, keyed{key: dateparser.SortableKey(d), s: item})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	resp := make([]schedule.ScheduleResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, schedule.NewScheduleResponse(r.s))
	}
	return resp, nil
}

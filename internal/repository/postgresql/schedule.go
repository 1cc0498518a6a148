package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/absensi-go/internal/domain/schedule"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// ListByUser implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListByUser(ctx context.Context, userID string) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, clock_in, clock_out, is_day_off
		FROM schedules
		WHERE user_id = $1
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var list []schedule.Schedule
	for rows.Next() {
		var s schedule.Schedule
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.ClockIn, &s.ClockOut, &s.IsDayOff); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

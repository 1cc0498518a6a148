package attendance

import (
	"context"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	ListByUser(ctx context.Context, userID string) ([]Attendance, error)
	// CloseSession sets check_out on an open record only; it never overwrites
	// an existing check-out.
	CloseSession(ctx context.Context, id, userID, checkOut string, note *string) (Attendance, error)
	ListOpenSessions(ctx context.Context) ([]Attendance, error)
}

// RecapCache caches monthly counts per user.
type RecapCache interface {
	Get(ctx context.Context, userID string, year, month int) (recap.Counts, bool)
	Set(ctx context.Context, userID string, year, month int, counts recap.Counts)
	Invalidate(ctx context.Context, userID string)
}

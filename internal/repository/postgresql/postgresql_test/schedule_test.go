package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/absensi-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository_ListByUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "budi@example.com")
	other := createUser(t, db, "siti@example.com")

	_, err := db.Exec(ctx, `
		INSERT INTO schedules (user_id, date, clock_in, clock_out, is_day_off) VALUES
		($1, '2024-03-05', '08:00', '17:00', false),
		($1, '2024-03-06', '', '', true),
		($2, '2024-03-05', '09:00', '18:00', false)
	`, u.ID, other.ID)
	require.NoError(t, err)

	list, err := postgresql.NewScheduleRepository(db).ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "08:00", list[0].ClockIn)
	assert.True(t, list[1].IsDayOff)
}

package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/domain/schedule"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/worksession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fakeAttendanceRepo struct {
	records []attendance.Attendance
	seq     int
}

func (f *fakeAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.UserID == a.UserID && r.Date == a.Date && r.Source == attendance.SourceAbsensi && a.Source == attendance.SourceAbsensi {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.seq++
	a.ID = fmt.Sprintf("att-%d", f.seq)
	f.records = append(f.records, a)
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListByUser(_ context.Context, userID string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CloseSession(_ context.Context, id, userID, checkOut string, note *string) (attendance.Attendance, error) {
	for i, r := range f.records {
		if r.ID == id && r.UserID == userID && (r.CheckOut == nil || *r.CheckOut == "") {
			f.records[i].CheckOut = &checkOut
			f.records[i].Note = note
			return f.records[i], nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListOpenSessions(_ context.Context) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.Source == attendance.SourceAbsensi && r.State() == worksession.CheckedIn {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct {
	list []schedule.Schedule
}

func (f *fakeScheduleRepo) ListByUser(_ context.Context, userID string) ([]schedule.Schedule, error) {
	var out []schedule.Schedule
	for _, s := range f.list {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCache struct {
	data        map[string]recap.Counts
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]recap.Counts{}}
}

func cacheKey(userID string, year, month int) string {
	return fmt.Sprintf("%s:%04d-%02d", userID, year, month)
}

func (f *fakeCache) Get(_ context.Context, userID string, year, month int) (recap.Counts, bool) {
	c, ok := f.data[cacheKey(userID, year, month)]
	return c, ok
}

func (f *fakeCache) Set(_ context.Context, userID string, year, month int, counts recap.Counts) {
	f.data[cacheKey(userID, year, month)] = counts
}

func (f *fakeCache) Invalidate(_ context.Context, userID string) {
	f.invalidated = append(f.invalidated, userID)
	for k := range f.data {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+":" {
			delete(f.data, k)
		}
	}
}

type fakePublisher struct {
	events []sse.Event
}

func (f *fakePublisher) Publish(userID string, e sse.Event) {
	e.UserID = userID
	f.events = append(f.events, e)
}

type fixture struct {
	svc       *AttendanceServiceImpl
	repo      *fakeAttendanceRepo
	schedules *fakeScheduleRepo
	cache     *fakeCache
	pub       *fakePublisher
	now       time.Time
	ctx       context.Context
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		repo:      &fakeAttendanceRepo{},
		schedules: &fakeScheduleRepo{},
		cache:     newFakeCache(),
		pub:       &fakePublisher{},
		now:       now,
	}
	f.svc = NewAttendanceService(f.repo, f.schedules, f.cache, f.pub, Options{
		Location:        wib,
		ShiftLength:     8 * time.Hour,
		GracePeriod:     5 * time.Minute,
		DefaultLocation: "Kantor Pusat (WFO)",
		Now:             func() time.Time { return f.now },
	})

	jwtSvc, err := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	require.NoError(t, err)
	f.ctx, err = jwtSvc.ContextWithIdentity(context.Background(), "user-1", "budi@example.com")
	require.NoError(t, err)
	return f
}

func strPtr(s string) *string { return &s }

func TestCheckIn(t *testing.T) {
	t.Run("creates record with default location and on-time status", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 3, 0, 0, wib))
		f.schedules.list = []schedule.Schedule{{UserID: "user-1", Date: "2024-03-05", ClockIn: "08:00", ClockOut: "17:00"}}

		resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		require.NoError(t, err)

		assert.Equal(t, "2024-03-05", resp.Date)
		assert.Equal(t, "08:03:00", *resp.CheckIn)
		assert.Nil(t, resp.CheckOut)
		assert.Equal(t, attendance.StatusOnTime, resp.Status)
		assert.Equal(t, status.Hadir, resp.Canonical)
		assert.Equal(t, "Kantor Pusat (WFO)", *resp.Location)
		assert.Equal(t, attendance.SourceAbsensi, resp.Source)

		require.Len(t, f.pub.events, 1)
		assert.Equal(t, sse.EventAttendanceUpdated, f.pub.events[0].Event)
		assert.Equal(t, []string{"user-1"}, f.cache.invalidated)
	})

	t.Run("late after grace period", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 5, 1, 0, wib))
		f.schedules.list = []schedule.Schedule{{UserID: "user-1", Date: "05/03/2024", ClockIn: "08:00", ClockOut: "17:00"}}

		resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Location: "Rumah (WFH)"})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusLate, resp.Status)
		assert.Equal(t, status.Terlambat, resp.Canonical)
		assert.Equal(t, "Rumah (WFH)", *resp.Location)
	})

	t.Run("day off schedule never late", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 9, 13, 0, 0, 0, wib))
		f.schedules.list = []schedule.Schedule{{UserID: "user-1", Date: "2024-03-09", IsDayOff: true}}

		resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusOnTime, resp.Status)
	})

	t.Run("twice on the same day", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		require.NoError(t, err)

		_, err = f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		assert.Len(t, f.repo.records, 1)
	})

	t.Run("after check-out the day is completed", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		f.repo.records = []attendance.Attendance{{
			ID: "a", UserID: "user-1", Date: "2024-03-05", CheckIn: strPtr("07:00:00"), CheckOut: strPtr("07:30:00"),
			Status: attendance.StatusOnTime, Source: attendance.SourceAbsensi,
		}}

		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrAttendanceCompleted)
	})

	t.Run("leave record blocks check-in", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		f.repo.records = []attendance.Attendance{{
			ID: "a", UserID: "user-1", Date: "2024-03-05", CheckIn: strPtr(attendance.NoTime), CheckOut: strPtr(attendance.NoTime),
			Status: "Sakit", Source: attendance.SourcePengajuan,
		}}

		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrAttendanceCompleted)
	})

	t.Run("location too long", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		long := make([]byte, 256)
		for i := range long {
			long[i] = 'x'
		}

		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Location: string(long)})
		var vErr validator.ValidationErrors
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("no identity in context", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{})
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
	})
}

func TestCheckOut(t *testing.T) {
	t.Run("closes today's session", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		require.NoError(t, err)

		f.now = time.Date(2024, 3, 5, 17, 15, 30, 0, wib)
		resp, err := f.svc.CheckOut(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, "17:15:30", *resp.CheckOut)
		assert.Len(t, f.pub.events, 2)
	})

	t.Run("without check-in", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 17, 0, 0, 0, wib))
		_, err := f.svc.CheckOut(f.ctx)
		assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	})

	t.Run("twice", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{})
		require.NoError(t, err)
		_, err = f.svc.CheckOut(f.ctx)
		require.NoError(t, err)

		_, err = f.svc.CheckOut(f.ctx)
		assert.ErrorIs(t, err, attendance.ErrAttendanceCompleted)
	})

	t.Run("overnight session opened yesterday", func(t *testing.T) {
		f := newFixture(t, time.Date(2024, 3, 5, 2, 0, 0, 0, wib))
		f.repo.records = []attendance.Attendance{{
			ID: "night", UserID: "user-1", Date: "2024-03-04", CheckIn: strPtr("22:00:00"),
			Status: attendance.StatusOnTime, Source: attendance.SourceAbsensi,
		}}

		resp, err := f.svc.CheckOut(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, "night", resp.ID)
		assert.Equal(t, "02:00:00", *resp.CheckOut)
	})
}

func TestToggle(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 5, 8, 0, 0, 0, wib))

	resp, err := f.svc.Toggle(f.ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.CheckOut)

	f.now = f.now.Add(4 * time.Hour)
	resp, err = f.svc.Toggle(f.ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "12:00:00", *resp.CheckOut)

	_, err = f.svc.Toggle(f.ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAttendanceCompleted)
}

func TestTodayFor(t *testing.T) {
	tests := []struct {
		name          string
		records       []attendance.Attendance
		now           time.Time
		wantState     worksession.State
		wantRemaining string
		wantCheckIn   bool
		wantCheckOut  bool
	}{
		{
			name:          "not checked in",
			now:           time.Date(2024, 3, 5, 7, 0, 0, 0, wib),
			wantState:     worksession.NotCheckedIn,
			wantRemaining: "08:00:00",
			wantCheckIn:   true,
		},
		{
			name: "working",
			records: []attendance.Attendance{{
				ID: "a", UserID: "user-1", Date: "2024-03-05", CheckIn: strPtr("08:00:00"),
				Status: attendance.StatusOnTime, Source: attendance.SourceAbsensi,
			}},
			now:           time.Date(2024, 3, 5, 10, 30, 0, 0, wib),
			wantState:     worksession.CheckedIn,
			wantRemaining: "05:30:00",
			wantCheckOut:  true,
		},
		{
			name: "finished",
			records: []attendance.Attendance{{
				ID: "a", UserID: "user-1", Date: "05/03/2024", CheckIn: strPtr("08:00 AM"), CheckOut: strPtr("05:00 PM"),
				Status: "Hadir", Source: attendance.SourceAbsensi,
			}},
			now:           time.Date(2024, 3, 5, 20, 0, 0, 0, wib),
			wantState:     worksession.CheckedOut,
			wantRemaining: "00:00:00",
		},
		{
			name: "yesterday's record does not carry over once closed",
			records: []attendance.Attendance{{
				ID: "a", UserID: "user-1", Date: "2024-03-04", CheckIn: strPtr("08:00:00"), CheckOut: strPtr("16:00:00"),
				Status: attendance.StatusOnTime, Source: attendance.SourceAbsensi,
			}},
			now:           time.Date(2024, 3, 5, 7, 0, 0, 0, wib),
			wantState:     worksession.NotCheckedIn,
			wantRemaining: "08:00:00",
			wantCheckIn:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)
			f.repo.records = tt.records

			resp, err := f.svc.TodayFor(context.Background(), "user-1", tt.now)
			require.NoError(t, err)

			assert.Equal(t, "2024-03-05", resp.Date)
			assert.Equal(t, tt.wantState, resp.State)
			assert.Equal(t, worksession.Label(tt.wantState), resp.Label)
			assert.Equal(t, tt.wantRemaining, resp.Remaining)
			assert.Equal(t, tt.wantCheckIn, resp.CanCheckIn)
			assert.Equal(t, tt.wantCheckOut, resp.CanCheckOut)
			assert.NotEmpty(t, resp.Message)
			if tt.wantState == worksession.NotCheckedIn {
				assert.Nil(t, resp.Record)
			} else {
				assert.NotNil(t, resp.Record)
			}
		})
	}
}

func TestTodayFor_MonthlyUsesCache(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 5, 7, 0, 0, 0, wib))
	f.repo.records = []attendance.Attendance{
		{ID: "1", UserID: "user-1", Date: "2024-03-01", Status: "Hadir", Source: attendance.SourceAbsensi},
		{ID: "2", UserID: "user-1", Date: "2024-03-04", Status: "Izin", Source: attendance.SourcePengajuan},
	}

	resp, err := f.svc.TodayFor(context.Background(), "user-1", f.now)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Monthly.Total)

	cached, ok := f.cache.Get(context.Background(), "user-1", 2024, 3)
	require.True(t, ok)
	assert.Equal(t, resp.Monthly, cached)

	f.cache.Set(context.Background(), "user-1", 2024, 3, recap.Counts{Total: 99})
	resp, err = f.svc.TodayFor(context.Background(), "user-1", f.now)
	require.NoError(t, err)
	assert.Equal(t, 99, resp.Monthly.Total)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 20, 9, 0, 0, 0, wib))
	f.repo.records = []attendance.Attendance{
		{ID: "1", UserID: "user-1", Date: "01/03/2024", Status: "Hadir", Source: attendance.SourceAbsensi},
		{ID: "2", UserID: "user-1", Date: "2024-03-15", Status: "Terlambat", Source: attendance.SourceAbsensi},
		{ID: "3", UserID: "user-1", Date: "2024-03-10", Status: "Sakit", Source: attendance.SourcePengajuan},
		{ID: "4", UserID: "user-1", Date: "2024-02-28", Status: "Hadir", Source: attendance.SourceAbsensi},
		{ID: "5", UserID: "user-1", Date: "garbage", Status: "Hadir", Source: attendance.SourceAbsensi},
		{ID: "6", UserID: "user-2", Date: "2024-03-11", Status: "Hadir", Source: attendance.SourceAbsensi},
	}

	t.Run("current month newest first", func(t *testing.T) {
		resp, err := f.svc.History(f.ctx, attendance.HistoryQuery{})
		require.NoError(t, err)

		assert.Equal(t, 2024, resp.Year)
		assert.Equal(t, 3, resp.Month)
		assert.Equal(t, "Semua", resp.Status)
		ids := make([]string, len(resp.Items))
		for i, it := range resp.Items {
			ids[i] = it.ID
		}
		assert.Equal(t, []string{"2", "3", "1"}, ids)
		assert.Equal(t, recap.Counts{Total: 3, Hadir: 2, Terlambat: 1, Sakit: 1}, resp.Counts)
	})

	t.Run("status filter keeps counts for whole month", func(t *testing.T) {
		resp, err := f.svc.History(f.ctx, attendance.HistoryQuery{Status: "Terlambat"})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, "2", resp.Items[0].ID)
		assert.Equal(t, "Terlambat", resp.Status)
		assert.Equal(t, 3, resp.Counts.Total)
	})

	t.Run("other month", func(t *testing.T) {
		resp, err := f.svc.History(f.ctx, attendance.HistoryQuery{PeriodQuery: attendance.PeriodQuery{Year: 2024, Month: 2}})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "4", resp.Items[0].ID)
	})

	t.Run("empty month returns empty list", func(t *testing.T) {
		resp, err := f.svc.History(f.ctx, attendance.HistoryQuery{PeriodQuery: attendance.PeriodQuery{Year: 2023, Month: 1}})
		require.NoError(t, err)
		assert.NotNil(t, resp.Items)
		assert.Empty(t, resp.Items)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := f.svc.History(f.ctx, attendance.HistoryQuery{PeriodQuery: attendance.PeriodQuery{Month: 13}})
		var vErr validator.ValidationErrors
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestMonthlyRecap(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 20, 9, 0, 0, 0, wib))
	f.repo.records = []attendance.Attendance{
		{ID: "1", UserID: "user-1", Date: "2024-03-01", Status: "Tepat Waktu", Source: attendance.SourceAbsensi},
		{ID: "2", UserID: "user-1", Date: "2024-03-02", Status: "Cuti", Source: attendance.SourcePengajuan},
		{ID: "3", UserID: "user-1", Date: "2024-03-03", Status: "Alpa", Source: attendance.SourceAbsensi},
	}

	resp, err := f.svc.MonthlyRecap(f.ctx, attendance.PeriodQuery{})
	require.NoError(t, err)
	assert.Equal(t, recap.Counts{Total: 3, Hadir: 1, Cuti: 1, Alpa: 1}, resp.Counts)

	_, cached := f.cache.Get(context.Background(), "user-1", 2024, 3)
	assert.True(t, cached)
}

func TestCloseStaleSessions(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 6, 9, 0, 0, 0, wib))
	f.repo.records = []attendance.Attendance{
		{ID: "old", UserID: "user-1", Date: "2024-03-04", CheckIn: strPtr("08:00:00"), Status: "Tepat Waktu", Source: attendance.SourceAbsensi},
		{ID: "late-night", UserID: "user-2", Date: "2024-03-05", CheckIn: strPtr("23:00:00"), Status: "Tepat Waktu", Source: attendance.SourceAbsensi},
		{ID: "today", UserID: "user-3", Date: "2024-03-06", CheckIn: strPtr("00:30:00"), Status: "Tepat Waktu", Source: attendance.SourceAbsensi},
		{ID: "done", UserID: "user-4", Date: "2024-03-04", CheckIn: strPtr("08:00:00"), CheckOut: strPtr("16:00:00"), Status: "Tepat Waktu", Source: attendance.SourceAbsensi},
	}

	n, err := f.svc.CloseStaleSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	old, _ := f.repo.GetByID(context.Background(), "old")
	assert.Equal(t, "16:00:00", *old.CheckOut)
	assert.Equal(t, attendance.AutoClosedNote, *old.Note)

	night, _ := f.repo.GetByID(context.Background(), "late-night")
	assert.Equal(t, "07:00:00", *night.CheckOut)

	today, _ := f.repo.GetByID(context.Background(), "today")
	assert.Nil(t, today.CheckOut)

	assert.Len(t, f.pub.events, 2)

	n, err = f.svc.CloseStaleSessions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

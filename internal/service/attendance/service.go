package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/domain/schedule"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/worksession"
)

const dayLayout = "2006-01-02"

// Publisher delivers live updates to a user's open streams.
type Publisher interface {
	Publish(userID string, event sse.Event)
}

type Options struct {
	Location        *time.Location
	ShiftLength     time.Duration
	GracePeriod     time.Duration
	DefaultLocation string
	Classifier      status.Classifier
	Now             func() time.Time
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	schedules  schedule.ScheduleRepository
	cache      attendance.RecapCache
	publisher  Publisher
	opts       Options
	aggregator recap.Aggregator
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	scheduleRepository schedule.ScheduleRepository,
	recapCache attendance.RecapCache,
	publisher Publisher,
	opts Options,
) *AttendanceServiceImpl {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ShiftLength <= 0 {
		opts.ShiftLength = worksession.DefaultShiftLength * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		schedules:            scheduleRepository,
		cache:                recapCache,
		publisher:            publisher,
		opts:                 opts,
		aggregator:           recap.Aggregator{Classifier: opts.Classifier},
	}
}

func (s *AttendanceServiceImpl) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *AttendanceServiceImpl) shiftSeconds() int {
	return int(s.opts.ShiftLength / time.Second)
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, worksession.ErrAlreadyCheckedIn):
		return attendance.ErrAlreadyCheckedIn
	case errors.Is(err, worksession.ErrNotCheckedIn):
		return attendance.ErrNotCheckedIn
	case errors.Is(err, worksession.ErrDayCompleted):
		return attendance.ErrAttendanceCompleted
	default:
		return err
	}
}

// activeRecord picks the record that governs now: today's record, or a
// session opened yesterday that is still running past midnight.
func activeRecord(records []attendance.Attendance, now time.Time) (attendance.Attendance, bool) {
	if rec, ok := attendance.FindDay(records, now.Format(dayLayout)); ok {
		return rec, true
	}
	yesterday := now.AddDate(0, 0, -1).Format(dayLayout)
	if rec, ok := attendance.FindDay(records, yesterday); ok && rec.State() == worksession.CheckedIn {
		return rec, true
	}
	return attendance.Attendance{}, false
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	now := s.now()
	records, err := s.AttendanceRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	state := worksession.NotCheckedIn
	if rec, ok := activeRecord(records, now); ok {
		state = rec.State()
	}
	if _, err := worksession.Transition(state, worksession.ActionCheckIn); err != nil {
		metrics.AttendanceActions.WithLabelValues("check_in", "rejected").Inc()
		return attendance.AttendanceResponse{}, transitionError(err)
	}

	label, err := s.arrivalStatus(ctx, id.UserID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	location := req.Location
	if location == "" {
		location = s.opts.DefaultLocation
	}
	checkIn := now.Format("15:04:05")

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:   id.UserID,
		Email:    id.Email,
		Date:     now.Format(dayLayout),
		CheckIn:  &checkIn,
		Status:   label,
		Location: &location,
		Source:   attendance.SourceAbsensi,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			metrics.AttendanceActions.WithLabelValues("check_in", "rejected").Inc()
		}
		return attendance.AttendanceResponse{}, err
	}

	metrics.AttendanceActions.WithLabelValues("check_in", "ok").Inc()
	slog.InfoContext(ctx, "checked in", "user_id", id.UserID, "date", created.Date, "status", label)
	return s.changed(ctx, created), nil
}

// arrivalStatus compares now with today's scheduled start plus the grace period.
// Without a working-day schedule every arrival is on time.
func (s *AttendanceServiceImpl) arrivalStatus(ctx context.Context, userID string, now time.Time) (string, error) {
	list, err := s.schedules.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	sched, ok := schedule.FindDay(list, now.Format(dayLayout))
	if !ok {
		return attendance.StatusOnTime, nil
	}
	start, ok := sched.ClockInSeconds()
	if !ok {
		return attendance.StatusOnTime, nil
	}

	nowSeconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if nowSeconds > start+int(s.opts.GracePeriod/time.Second) {
		return attendance.StatusLate, nil
	}
	return attendance.StatusOnTime, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	now := s.now()
	records, err := s.AttendanceRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, ok := activeRecord(records, now)
	state := worksession.NotCheckedIn
	if ok {
		state = rec.State()
	}
	if _, err := worksession.Transition(state, worksession.ActionCheckOut); err != nil {
		metrics.AttendanceActions.WithLabelValues("check_out", "rejected").Inc()
		return attendance.AttendanceResponse{}, transitionError(err)
	}

	closed, err := s.AttendanceRepository.CloseSession(ctx, rec.ID, id.UserID, now.Format("15:04:05"), nil)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			// closed by a concurrent request since we read it
			metrics.AttendanceActions.WithLabelValues("check_out", "rejected").Inc()
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceCompleted
		}
		return attendance.AttendanceResponse{}, err
	}

	metrics.AttendanceActions.WithLabelValues("check_out", "ok").Inc()
	slog.InfoContext(ctx, "checked out", "user_id", id.UserID, "date", closed.Date)
	return s.changed(ctx, closed), nil
}

// Toggle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Toggle(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	records, err := s.AttendanceRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	state := worksession.NotCheckedIn
	if rec, ok := activeRecord(records, s.now()); ok {
		state = rec.State()
	}
	action, ok := worksession.NextAction(state)
	if !ok {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceCompleted
	}
	if action == worksession.ActionCheckIn {
		return s.CheckIn(ctx, req)
	}
	return s.CheckOut(ctx)
}

// changed runs the side effects shared by every write.
func (s *AttendanceServiceImpl) changed(ctx context.Context, a attendance.Attendance) attendance.AttendanceResponse {
	s.cache.Invalidate(ctx, a.UserID)
	resp := attendance.NewAttendanceResponse(a, s.opts.Classifier)
	if s.publisher != nil {
		s.publisher.Publish(a.UserID, sse.Event{Event: sse.EventAttendanceUpdated, Data: resp})
	}
	return resp
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return s.TodayFor(ctx, id.UserID, s.opts.Now())
}

// TodayFor implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodayFor(ctx context.Context, userID string, now time.Time) (attendance.TodayResponse, error) {
	now = now.In(s.opts.Location)
	records, err := s.AttendanceRepository.ListByUser(ctx, userID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	resp := attendance.TodayResponse{
		Date:  now.Format(dayLayout),
		State: worksession.NotCheckedIn,
	}

	var checkIn, checkOut *string
	if rec, ok := activeRecord(records, now); ok {
		r := attendance.NewAttendanceResponse(rec, s.opts.Classifier)
		resp.Record = &r
		resp.State = rec.State()
		checkIn, checkOut = rec.CheckIn, rec.CheckOut
	}

	resp.Session = worksession.ComputeSession(checkIn, checkOut, now, s.shiftSeconds())
	resp.Remaining = resp.Session.RemainingCompact()
	resp.Label = worksession.Label(resp.State)
	resp.CanCheckIn = resp.State == worksession.NotCheckedIn
	resp.CanCheckOut = resp.State == worksession.CheckedIn
	switch resp.State {
	case worksession.NotCheckedIn:
		resp.Message = "Silakan check-in untuk memulai hari kerja"
	case worksession.CheckedIn:
		resp.Message = "Jangan lupa check-out setelah selesai bekerja"
	default:
		resp.Message = attendance.ErrAttendanceCompleted.Error()
	}

	resp.Monthly = s.monthly(ctx, userID, records, now.Year(), int(now.Month()))
	return resp, nil
}

func (s *AttendanceServiceImpl) monthly(ctx context.Context, userID string, records []attendance.Attendance, year, month int) recap.Counts {
	if counts, ok := s.cache.Get(ctx, userID, year, month); ok {
		return counts
	}
	counts := s.aggregator.Aggregate(attendance.RecapRecords(records), year, month)
	s.cache.Set(ctx, userID, year, month, counts)
	return counts
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, q attendance.HistoryQuery) (attendance.HistoryResponse, error) {
	if err := q.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	year, month := q.Resolve(s.now())
	filter, _ := status.ParseFilter(q.Status)

	records, err := s.AttendanceRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	var inMonth []attendance.Attendance
	for _, r := range records {
		if d, ok := dateparser.Parse(r.Date); ok && dateparser.CompareMonth(d, year, month) {
			inMonth = append(inMonth, r)
		}
	}
	dateparser.SortDescending(inMonth, func(a attendance.Attendance) string { return a.Date })

	resp := attendance.HistoryResponse{
		Year:   year,
		Month:  month,
		Status: "Semua",
		Counts: s.aggregator.Aggregate(attendance.RecapRecords(inMonth), year, month),
		Items:  []attendance.AttendanceResponse{},
	}
	if filter != "" {
		resp.Status = string(filter)
	}
	for _, r := range inMonth {
		item := attendance.NewAttendanceResponse(r, s.opts.Classifier)
		if filter != "" && item.Canonical != filter {
			continue
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// MonthlyRecap implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlyRecap(ctx context.Context, q attendance.PeriodQuery) (attendance.RecapResponse, error) {
	if err := q.Validate(); err != nil {
		return attendance.RecapResponse{}, err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.RecapResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	year, month := q.Resolve(s.now())
	if counts, ok := s.cache.Get(ctx, id.UserID, year, month); ok {
		return attendance.RecapResponse{Year: year, Month: month, Counts: counts}, nil
	}

	records, err := s.AttendanceRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return attendance.RecapResponse{}, err
	}
	counts := s.aggregator.Aggregate(attendance.RecapRecords(records), year, month)
	s.cache.Set(ctx, id.UserID, year, month, counts)
	return attendance.RecapResponse{Year: year, Month: month, Counts: counts}, nil
}

// CloseStaleSessions implements attendance.AttendanceService. Sessions opened
// on an earlier day whose full shift has elapsed get a check-out at
// check-in plus shift length.
func (s *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context) (int, error) {
	open, err := s.AttendanceRepository.ListOpenSessions(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	today := now.Format(dayLayout)
	note := attendance.AutoClosedNote
	closed := 0

	for _, rec := range open {
		d, ok := dateparser.Parse(rec.Date)
		if !ok || dateparser.SortableKey(d) >= today || rec.CheckIn == nil {
			continue
		}
		startSeconds, ok := worksession.ParseTimeToSeconds(*rec.CheckIn)
		if !ok {
			continue
		}

		start := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, s.opts.Location).
			Add(time.Duration(startSeconds) * time.Second)
		if start.Add(s.opts.ShiftLength).After(now) {
			continue
		}

		checkOut := worksession.ClockString(startSeconds + s.shiftSeconds())
		updated, err := s.AttendanceRepository.CloseSession(ctx, rec.ID, rec.UserID, checkOut, &note)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				continue
			}
			slog.ErrorContext(ctx, "failed to close stale session", "attendance_id", rec.ID, "error", err)
			continue
		}

		closed++
		metrics.StaleSessionsClosed.Inc()
		s.changed(ctx, updated)
	}

	if closed > 0 {
		slog.InfoContext(ctx, "closed stale sessions", "count", closed)
	}
	return closed, nil
}

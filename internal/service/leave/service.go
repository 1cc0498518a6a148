package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
)

// Publisher delivers live updates to a user's open streams.
type Publisher interface {
	Publish(userID string, event sse.Event)
}

type LeaveServiceImpl struct {
	db database.Transactor
	leave.SubmissionRepository
	attendance attendance.AttendanceRepository
	users      user.UserRepository
	cache      attendance.RecapCache
	publisher  Publisher
	classifier status.Classifier
}

func NewLeaveService(
	db database.Transactor,
	submissionRepository leave.SubmissionRepository,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	recapCache attendance.RecapCache,
	publisher Publisher,
	classifier status.Classifier,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:                   db,
		SubmissionRepository: submissionRepository,
		attendance:           attendanceRepository,
		users:                userRepository,
		cache:                recapCache,
		publisher:            publisher,
		classifier:           classifier,
	}
}

// Submit implements leave.LeaveService. The submission and the attendance
// record it implies are written together or not at all.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.SubmissionResponse, error) {
	if _, ok := leave.ParseType(string(req.Type)); !ok {
		return leave.SubmissionResponse{}, leave.ErrInvalidLeaveType
	}
	if err := req.Validate(); err != nil {
		return leave.SubmissionResponse{}, err
	}

	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return leave.SubmissionResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	u, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return leave.SubmissionResponse{}, err
	}

	var (
		created leave.Submission
		record  attendance.Attendance
	)
	err = s.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.SubmissionRepository.Create(ctx, leave.Submission{
			UserID:    u.ID,
			Name:      u.DisplayName(),
			Email:     u.Email,
			Type:      req.Type,
			Category:  req.Category,
			StartDate: req.StartKey(),
			EndDate:   req.EndKey(),
			Reason:    req.Reason,
			Status:    leave.StatusPending,
		})
		if err != nil {
			return err
		}

		noTime := attendance.NoTime
		location := req.Type.Location()
		endDate := req.EndKey()
		var category *string
		if req.Category != "" {
			category = &req.Category
		}
		record, err = s.attendance.Create(ctx, attendance.Attendance{
			UserID:   u.ID,
			Email:    u.Email,
			Date:     req.StartKey(),
			EndDate:  &endDate,
			CheckIn:  &noTime,
			CheckOut: &noTime,
			Status:   req.Type.AttendanceStatus(),
			Category: category,
			Note:     &req.Reason,
			Location: &location,
			Source:   attendance.SourcePengajuan,
		})
		return err
	})
	if err != nil {
		return leave.SubmissionResponse{}, err
	}

	metrics.LeaveSubmissions.WithLabelValues(string(req.Type)).Inc()
	s.cache.Invalidate(ctx, u.ID)
	if s.publisher != nil {
		s.publisher.Publish(u.ID, sse.Event{
			Event: sse.EventAttendanceUpdated,
			Data:  attendance.NewAttendanceResponse(record, s.classifier),
		})
	}
	slog.InfoContext(ctx, "leave submitted", "user_id", u.ID, "type", req.Type, "start", created.StartDate, "end", created.EndDate)

	return leave.NewSubmissionResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context) ([]leave.SubmissionResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	list, err := s.SubmissionRepository.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	dateparser.SortDescending(list, func(sub leave.Submission) string { return sub.StartDate })

	resp := make([]leave.SubmissionResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, leave.NewSubmissionResponse(item))
	}
	return resp, nil
}
